package validate

import (
	"context"
	"errors"
	"strings"

	"github.com/hashicorp/go-multierror"

	"budget/internal/app/apperr"
	"budget/internal/app/model"
)

// UserFinder is the part of storage.UserRepository the gate reads.
type UserFinder interface {
	ReadByName(ctx context.Context, name string) (*model.User, error)
}

type Gate struct {
	users UserFinder
}

func NewGate(users UserFinder) *Gate {
	return &Gate{users: users}
}

// UsernameExists reports whether name is registered, exact match.
func (g *Gate) UsernameExists(ctx context.Context, name string) (bool, error) {
	_, err := g.users.ReadByName(ctx, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperr.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Username checks the shape of name and that no user other than selfID owns it.
// selfID is 0 for a new user.
func (g *Gate) Username(ctx context.Context, name string, selfID int64) error {
	if err := UsernameShape(name); err != nil {
		return err
	}

	u, err := g.users.ReadByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	if selfID != 0 && u.ID == selfID {
		return nil
	}

	return apperr.Validation("user_name", "already exists")
}

// Registration runs every check of a new user.
func (g *Gate) Registration(ctx context.Context, u *model.User, password string) error {
	return g.profile(ctx, u, password, 0)
}

// ProfileUpdate runs every check of a profile update of user id.
// An empty password keeps the stored one and is not checked.
func (g *Gate) ProfileUpdate(ctx context.Context, id int64, u *model.User, password string) error {
	return g.profile(ctx, u, password, id)
}

func (g *Gate) profile(ctx context.Context, u *model.User, password string, selfID int64) error {
	var result *multierror.Error

	if err := g.Username(ctx, u.Name, selfID); err != nil {
		if !errors.Is(err, apperr.ErrValidation) {
			return err
		}
		result = multierror.Append(result, err)
	}
	if selfID == 0 || password != "" {
		result = appendErr(result, Password(password))
	}
	result = appendErr(result, Email(u.Email))
	result = appendErr(result, Phone(u.Phone))

	return finish(result)
}

// LedgerRecord runs every check of an expense or revenue record.
// A zero UserID is left to the caller, an update keeps the current owner with it.
func (g *Gate) LedgerRecord(m *model.LedgerRecord) error {
	var result *multierror.Error

	result = appendErr(result, Amount(m.Amount))
	result = appendErr(result, AccountNumber(m.AccountNumber))
	if m.UserID < 0 {
		result = multierror.Append(result, apperr.Validation("user_id", "must be positive"))
	}

	return finish(result)
}

// ValidationErrors flattens an aggregated gate error.
func ValidationErrors(err error) []*apperr.ValidationError {
	var res []*apperr.ValidationError

	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			res = append(res, ValidationErrors(e)...)
		}
		return res
	}

	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		res = append(res, verr)
	}

	return res
}

func appendErr(result *multierror.Error, err error) *multierror.Error {
	if err == nil {
		return result
	}
	return multierror.Append(result, err)
}

func finish(result *multierror.Error) error {
	if result == nil {
		return nil
	}
	result.ErrorFormat = listFormat
	return result.ErrorOrNil()
}

func listFormat(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
