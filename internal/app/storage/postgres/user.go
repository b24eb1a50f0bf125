package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	pg "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"budget/internal/app/apperr"
	"budget/internal/app/logger"
	"budget/internal/app/model"
	"budget/internal/app/storage"
)

// storage.UserRepository interface implementation
var _ storage.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db *sql.DB
}

func (r *UserRepository) LoggerComponent() string {
	return "UserRepository"
}

func NewUserRepository(db *sql.DB) (*UserRepository, error) {
	s := &UserRepository{
		db: db,
	}
	return s, nil
}

const userColumns = `id, name, password_hash, email, address, phone, balance`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Email, &u.Address, &u.Phone, &u.Balance)
	return u, err
}

// All implementation of interface storage.UserRepository
func (r *UserRepository) All(ctx context.Context) ([]*model.User, error) {
	l := logger.Ctx(ctx).With().Str("method", "All").Logger()

	const SQL = `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, SQL)
	if err != nil {
		return nil, apperr.StoreFailure(err, "select users")
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			l.Debug().Err(err).Send()
			return nil, apperr.StoreFailure(err, "scan user")
		}
		res = append(res, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreFailure(err, "iterate users")
	}

	return res, nil
}

// Read implementation of interface storage.UserRepository
func (r *UserRepository) Read(ctx context.Context, id int64) (*model.User, error) {
	const SQL = `SELECT ` + userColumns + ` FROM users WHERE id=$1`

	u, err := scanUser(r.db.QueryRowContext(ctx, SQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.StoreFailure(err, "select user")
	}

	return u, nil
}

// ReadByName implementation of interface storage.UserRepository
func (r *UserRepository) ReadByName(ctx context.Context, name string) (*model.User, error) {
	const SQL = `SELECT ` + userColumns + ` FROM users WHERE name=$1`

	u, err := scanUser(r.db.QueryRowContext(ctx, SQL, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.StoreFailure(err, "select user by name")
	}

	return u, nil
}

// Create implementation of interface storage.UserRepository
func (r *UserRepository) Create(ctx context.Context, m *model.User) (int64, error) {
	const SQL = `
		INSERT INTO users (id, name, password_hash, email, address, phone, balance)
		VALUES (COALESCE(NULLIF($1::BIGINT, 0), (SELECT COALESCE(MAX(id), 0) + 1 FROM users)), $2, $3, $4, $5, $6, $7)
		RETURNING id
`
	var id int64
	err := r.db.QueryRowContext(ctx, SQL, m.ID, m.Name, m.PasswordHash, m.Email, m.Address, m.Phone, m.Balance).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperr.ErrAlreadyExists
		}
		return 0, apperr.StoreFailure(err, "insert user")
	}

	return id, nil
}

// Replace implementation of interface storage.UserRepository
func (r *UserRepository) Replace(ctx context.Context, m *model.User) error {
	const SQL = `
		UPDATE users
		SET name=$1, password_hash=$2, email=$3, address=$4, phone=$5
		WHERE id=$6
`
	res, err := r.db.ExecContext(ctx, SQL, m.Name, m.PasswordHash, m.Email, m.Address, m.Phone, m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrAlreadyExists
		}
		return apperr.StoreFailure(err, "update user")
	}

	return affectedOne(res, "update user")
}

// Delete implementation of interface storage.UserRepository
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	const SQL = `DELETE FROM users WHERE id=$1`

	res, err := r.db.ExecContext(ctx, SQL, id)
	if err != nil {
		return apperr.StoreFailure(err, "delete user")
	}

	return affectedOne(res, "delete user")
}

// AdjustBalance implementation of interface storage.UserRepository
func (r *UserRepository) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	l := logger.Ctx(ctx).With().
		Str("method", "AdjustBalance").
		Int64("user_id", id).
		Str("delta", delta.String()).
		Logger()

	const SQL = `UPDATE users SET balance=balance+$1 WHERE id=$2 RETURNING balance`

	var balance decimal.Decimal
	if err := r.db.QueryRowContext(ctx, SQL, delta, id).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, apperr.ErrNotFound
		}
		l.Error().Err(err).Msg("Balance update failed")
		return decimal.Zero, apperr.StoreFailure(err, "update balance")
	}

	l.Debug().Str("balance", balance.String()).Msg("Balance updated")

	return balance, nil
}

func pgCode(err error) string {
	var pgErr *pg.Error
	if errors.As(err, &pgErr) {
		return string(pgErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgCode(err) == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgCode(err) == pgerrcode.ForeignKeyViolation
}

// isCheckViolation reports a failed CHECK, only amount > 0 on ledger tables
func isCheckViolation(err error) bool {
	return pgCode(err) == pgerrcode.CheckViolation
}

func affectedOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.StoreFailure(err, op)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
