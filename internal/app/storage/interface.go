//go:generate mockgen -source=./interface.go -destination=./mock/storage.go -package=storagemock
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"budget/internal/app/model"
)

const (
	CollectionUsers    = "users"
	CollectionExpenses = "expenses"
	CollectionRevenues = "revenues"
)

type UserRepository interface {
	// All returns every model.User, empty slice when none
	All(ctx context.Context) ([]*model.User, error)
	// Read instance of model.User
	Read(ctx context.Context, id int64) (*model.User, error)
	// ReadByName instance of model.User, exact match
	ReadByName(ctx context.Context, name string) (*model.User, error)
	// Create a new model.User, returns the stored id
	Create(ctx context.Context, m *model.User) (int64, error)
	// Replace every stored field of model.User except the balance
	Replace(ctx context.Context, m *model.User) error
	// Delete instance of model.User
	Delete(ctx context.Context, id int64) error
	// AdjustBalance atomically adds delta to the balance and returns the new value
	AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error)
}

type LedgerRepository interface {
	// Kind of the records kept in this collection
	Kind() model.LedgerKind
	// All returns every model.LedgerRecord, empty slice when none
	All(ctx context.Context) ([]*model.LedgerRecord, error)
	// AllByUserID returns all records of user
	AllByUserID(ctx context.Context, userID int64) ([]*model.LedgerRecord, error)
	// Read instance of model.LedgerRecord
	Read(ctx context.Context, id int64) (*model.LedgerRecord, error)
	// Create a new model.LedgerRecord, returns the stored id
	Create(ctx context.Context, m *model.LedgerRecord) (int64, error)
	// Replace instance of model.LedgerRecord
	Replace(ctx context.Context, m *model.LedgerRecord) error
	// Delete instance of model.LedgerRecord
	Delete(ctx context.Context, id int64) error
	// DeleteByUserID removes all records of user and returns their count
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}
