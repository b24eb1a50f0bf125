package app

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"budget/internal/app/config"
	"budget/internal/app/handler"
	"budget/internal/app/lock"
	"budget/internal/app/logger"
	"budget/internal/app/model"
	"budget/internal/app/password"
	"budget/internal/app/service/ledger"
	"budget/internal/app/service/user"
	"budget/internal/app/session"
	"budget/internal/app/storage"
	"budget/internal/app/storage/memory"
	"budget/internal/app/storage/postgres"
	"budget/internal/app/validate"
)

type App struct {
	config config.Config
	logger logger.Logger
	db     *sql.DB
	redis  *redis.Client

	users    storage.UserRepository
	expenses storage.LedgerRepository
	revenues storage.LedgerRepository

	userService    *user.Service
	expenseService *ledger.Service
	revenueService *ledger.Service
	gate           *validate.Gate
	session        session.Manager

	stopCh chan struct{}
}

func New(cfg config.Config, logger logger.Logger, e embed.FS) (*App, error) {
	a := &App{
		config: cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	if err := a.initStorage(e); err != nil {
		return nil, err
	}

	locker, err := a.initLocker()
	if err != nil {
		return nil, err
	}

	floor, err := cfg.Ledger.Floor()
	if err != nil {
		return nil, err
	}

	hasher := password.NewBcrypt(cfg.Security.BcryptCost)

	a.userService = user.NewService(a.users, hasher, locker, a.expenses, a.revenues)
	a.expenseService = ledger.NewService(a.expenses, a.users, locker, ledger.WithBalanceFloor(floor))
	a.revenueService = ledger.NewService(a.revenues, a.users, locker, ledger.WithBalanceFloor(floor))
	a.gate = validate.NewGate(a.users)
	a.session = session.NewMemory(cfg.Security.SecretKey, a.userService,
		session.WithTokenLifetime(cfg.Security.TokenLifetime))

	go func() {
		<-a.stopCh
		a.logger.Info().Msg("Shutting down application")
		if a.db != nil {
			_ = a.db.Close()
		}
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	return a, nil
}

func (a *App) initStorage(e embed.FS) error {
	if a.config.Database.DSN == "" {
		a.logger.Warn().Msg("DATABASE_URI is empty, data is kept in memory")
		a.users = memory.NewUserRepository()
		a.expenses = memory.NewLedgerRepository(model.LedgerKindExpense)
		a.revenues = memory.NewLedgerRepository(model.LedgerKindRevenue)
		return nil
	}

	db, err := sql.Open("postgres", a.config.Database.DSN)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	if err := applyMigrations(a.logger, e, db); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	a.db = db

	if a.users, err = postgres.NewUserRepository(db); err != nil {
		return fmt.Errorf("user repository init: %w", err)
	}

	if a.expenses, err = postgres.NewLedgerRepository(db, model.LedgerKindExpense); err != nil {
		return fmt.Errorf("expense repository init: %w", err)
	}

	if a.revenues, err = postgres.NewLedgerRepository(db, model.LedgerKindRevenue); err != nil {
		return fmt.Errorf("revenue repository init: %w", err)
	}

	return nil
}

func (a *App) initLocker() (lock.Locker, error) {
	if a.config.Redis.Addr == "" {
		return lock.NewMemory(), nil
	}

	a.redis = redis.NewClient(&redis.Options{
		Addr:     a.config.Redis.Addr,
		Password: a.config.Redis.Password,
		DB:       a.config.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return lock.NewRedis(a.redis, lock.WithTTL(a.config.Redis.LockTTL)), nil
}

// healthDeps lists the backing services configured
func (a *App) healthDeps() map[string]handler.Pinger {
	deps := make(map[string]handler.Pinger)
	if a.db != nil {
		deps["database"] = a.db
	}
	if a.redis != nil {
		deps["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
	}
	return deps
}

func (a *App) Stop() {
	close(a.stopCh)
}
