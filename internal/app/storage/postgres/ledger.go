package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budget/internal/app/apperr"
	"budget/internal/app/logger"
	"budget/internal/app/model"
	"budget/internal/app/storage"
)

// storage.LedgerRepository interface implementation
var _ storage.LedgerRepository = (*LedgerRepository)(nil)

// LedgerRepository keeps one kind of ledger records in its own table.
type LedgerRepository struct {
	db    *sql.DB
	kind  model.LedgerKind
	table string
}

func (r *LedgerRepository) LoggerComponent() string {
	return "LedgerRepository." + r.kind.String()
}

func NewLedgerRepository(db *sql.DB, kind model.LedgerKind) (*LedgerRepository, error) {
	var table string
	switch kind {
	case model.LedgerKindExpense:
		table = storage.CollectionExpenses
	case model.LedgerKindRevenue:
		table = storage.CollectionRevenues
	default:
		return nil, fmt.Errorf("unknown ledger kind %d", kind)
	}

	return &LedgerRepository{
		db:    db,
		kind:  kind,
		table: table,
	}, nil
}

// Kind implementation of interface storage.LedgerRepository
func (r *LedgerRepository) Kind() model.LedgerKind {
	return r.kind
}

const ledgerColumns = `id, user_id, amount, date, description, account_number`

func (r *LedgerRepository) scan(row interface{ Scan(...interface{}) error }) (*model.LedgerRecord, error) {
	m := &model.LedgerRecord{Kind: r.kind}
	err := row.Scan(&m.ID, &m.UserID, &m.Amount, &m.Date, &m.Description, &m.AccountNumber)
	return m, err
}

// All implementation of interface storage.LedgerRepository
func (r *LedgerRepository) All(ctx context.Context) ([]*model.LedgerRecord, error) {
	SQL := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, ledgerColumns, r.table)
	return r.list(ctx, "All", SQL)
}

// AllByUserID implementation of interface storage.LedgerRepository
func (r *LedgerRepository) AllByUserID(ctx context.Context, userID int64) ([]*model.LedgerRecord, error) {
	SQL := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id=$1 ORDER BY id`, ledgerColumns, r.table)
	return r.list(ctx, "AllByUserID", SQL, userID)
}

func (r *LedgerRepository) list(ctx context.Context, method, query string, args ...interface{}) ([]*model.LedgerRecord, error) {
	l := logger.Ctx(ctx).With().Str("method", method).Str("table", r.table).Logger()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.StoreFailure(err, "select "+r.table)
	}
	defer func() {
		_ = rows.Close()
	}()

	res := make([]*model.LedgerRecord, 0)
	for rows.Next() {
		m, err := r.scan(rows)
		if err != nil {
			l.Debug().Err(err).Send()
			return nil, apperr.StoreFailure(err, "scan "+r.table)
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreFailure(err, "iterate "+r.table)
	}

	return res, nil
}

// Read implementation of interface storage.LedgerRepository
func (r *LedgerRepository) Read(ctx context.Context, id int64) (*model.LedgerRecord, error) {
	SQL := fmt.Sprintf(`SELECT %s FROM %s WHERE id=$1`, ledgerColumns, r.table)

	m, err := r.scan(r.db.QueryRowContext(ctx, SQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.StoreFailure(err, "select "+r.table)
	}

	return m, nil
}

// Create implementation of interface storage.LedgerRepository
func (r *LedgerRepository) Create(ctx context.Context, m *model.LedgerRecord) (int64, error) {
	SQL := fmt.Sprintf(`
		INSERT INTO %[1]s (id, user_id, amount, date, description, account_number)
		VALUES (COALESCE(NULLIF($1::BIGINT, 0), nextval('%[1]s_id_seq')), $2, $3, $4, $5, $6)
		RETURNING id
`, r.table)

	var id int64
	err := r.db.QueryRowContext(ctx, SQL, m.ID, m.UserID, m.Amount, m.Date, m.Description, m.AccountNumber).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, apperr.ErrNotFound
		}
		if isCheckViolation(err) {
			return 0, apperr.Validation("amount", "must be positive")
		}
		if isUniqueViolation(err) {
			return 0, apperr.ErrAlreadyExists
		}
		return 0, apperr.StoreFailure(err, "insert "+r.table)
	}

	return id, nil
}

// Replace implementation of interface storage.LedgerRepository
func (r *LedgerRepository) Replace(ctx context.Context, m *model.LedgerRecord) error {
	SQL := fmt.Sprintf(`
		UPDATE %s
		SET user_id=$1, amount=$2, date=$3, description=$4, account_number=$5
		WHERE id=$6
`, r.table)

	res, err := r.db.ExecContext(ctx, SQL, m.UserID, m.Amount, m.Date, m.Description, m.AccountNumber, m.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.ErrNotFound
		}
		if isCheckViolation(err) {
			return apperr.Validation("amount", "must be positive")
		}
		return apperr.StoreFailure(err, "update "+r.table)
	}

	return affectedOne(res, "update "+r.table)
}

// Delete implementation of interface storage.LedgerRepository
func (r *LedgerRepository) Delete(ctx context.Context, id int64) error {
	SQL := fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, r.table)

	res, err := r.db.ExecContext(ctx, SQL, id)
	if err != nil {
		return apperr.StoreFailure(err, "delete "+r.table)
	}

	return affectedOne(res, "delete "+r.table)
}

// DeleteByUserID implementation of interface storage.LedgerRepository
func (r *LedgerRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	SQL := fmt.Sprintf(`DELETE FROM %s WHERE user_id=$1`, r.table)

	res, err := r.db.ExecContext(ctx, SQL, userID)
	if err != nil {
		return 0, apperr.StoreFailure(err, "delete "+r.table+" by user")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.StoreFailure(err, "delete "+r.table+" by user")
	}

	return n, nil
}
