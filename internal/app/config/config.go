package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Security SecurityConfig
	Ledger   LedgerConfig

	LogVerbose bool `env:"APP_VERBOSE,default=0"`
	LogPretty  bool `env:"APP_PRETTY,default=0"`
}

type ServerConfig struct {
	Listen       string        `env:"RUN_ADDRESS,default=localhost:8088"`
	TimeoutRead  time.Duration `env:"SERVER_TIMEOUT_READ,default=5s"`
	TimeoutWrite time.Duration `env:"SERVER_TIMEOUT_WRITE,default=10s"`
	TimeoutIdle  time.Duration `env:"SERVER_TIMEOUT_IDLE,default=1m"`
}

// DatabaseConfig with an empty DSN keeps everything in memory
type DatabaseConfig struct {
	DSN string `env:"DATABASE_URI"`
}

// RedisConfig with an empty Addr locks users in process
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,default=0"`
	LockTTL  time.Duration `env:"REDIS_LOCK_TTL,default=10s"`
}

type SecurityConfig struct {
	SecretKey     string        `env:"APP_SECRET_KEY,default=ChangeMe"`
	TokenLifetime time.Duration `env:"APP_TOKEN_LIFETIME,default=1h"`
	BcryptCost    int           `env:"APP_BCRYPT_COST,default=10"`
}

type LedgerConfig struct {
	BalanceFloor string `env:"APP_BALANCE_FLOOR,default=-100000"`
}

// New config constructor
func New() Config {
	return Config{}
}

// Load config from environment and from .env file (if exists) and from flags
func (cfg *Config) Load() error {
	return cfg.load(pflag.CommandLine, os.Args[1:])
}

func (cfg *Config) load(flags *pflag.FlagSet, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(".env load: %w", err)
	}

	if err := envdecode.StrictDecode(cfg); err != nil {
		return fmt.Errorf("env decode: %w", err)
	}

	flags.StringVarP(&cfg.Server.Listen, "listen-addr", "a", cfg.Server.Listen, "Server address to listen on")
	flags.StringVarP(&cfg.Database.DSN, "database-uri", "d", cfg.Database.DSN, "Database URI, empty for in-memory storage")
	flags.StringVarP(&cfg.Redis.Addr, "redis-addr", "r", cfg.Redis.Addr, "Redis address for user locks, empty for in-process locks")
	flags.StringVar(&cfg.Ledger.BalanceFloor, "balance-floor", cfg.Ledger.BalanceFloor, "Lowest balance a user may reach")
	flags.BoolVarP(&cfg.LogVerbose, "verbose", "v", cfg.LogVerbose, "Verbose output")
	flags.BoolVarP(&cfg.LogPretty, "pretty", "p", cfg.LogPretty, "Pretty output")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("flags parse: %w", err)
	}

	if _, err := cfg.Ledger.Floor(); err != nil {
		return err
	}

	return nil
}

// Floor parses BalanceFloor
func (c LedgerConfig) Floor() (decimal.Decimal, error) {
	floor, err := decimal.NewFromString(c.BalanceFloor)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance floor %q: %w", c.BalanceFloor, err)
	}
	return floor, nil
}
