package handler

import (
	"context"

	"budget/internal/app/model"
)

type UserService interface {
	Read(ctx context.Context, id int64) (*model.User, error)
	All(ctx context.Context) ([]*model.User, error)
	Create(ctx context.Context, u *model.User, password string) (*model.User, error)
	Authenticate(ctx context.Context, name, password string) (*model.User, error)
	Update(ctx context.Context, id int64, u *model.User, password string) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

type LedgerService interface {
	Kind() model.LedgerKind
	Read(ctx context.Context, id int64) (*model.LedgerRecord, error)
	All(ctx context.Context) ([]*model.LedgerRecord, error)
	AllByUserID(ctx context.Context, userID int64) ([]*model.LedgerRecord, error)
	Create(ctx context.Context, userID int64, m *model.LedgerRecord) (*model.LedgerRecord, error)
	Update(ctx context.Context, id int64, m *model.LedgerRecord) (*model.LedgerRecord, error)
	Delete(ctx context.Context, id int64) error
}

type UserGate interface {
	Registration(ctx context.Context, u *model.User, password string) error
	ProfileUpdate(ctx context.Context, id int64, u *model.User, password string) error
}

type LedgerGate interface {
	LedgerRecord(m *model.LedgerRecord) error
}
