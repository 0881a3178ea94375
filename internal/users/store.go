package users

import (
	"context"
	"errors"

	"github.com/maazahmad/spendtrace/internal/domain"
)

// ErrNotFound reports that no user exists for the given handle. First contact
// from an unknown number is a normal event, not a failure.
var ErrNotFound = errors.New("users: not found")

// Store persists the handle → ledger mapping. The core only reads and writes
// through it; it never enumerates ledgers any other way.
type Store interface {
	// FindByHandle looks up a user by phone number. Returns ErrNotFound when
	// the handle has never onboarded.
	FindByHandle(ctx context.Context, phoneNumber string) (domain.User, error)

	// Save inserts or replaces the user record for its phone number.
	Save(ctx context.Context, user domain.User) error

	// FindAll returns every onboarded user, for the weekly summary fan-out.
	FindAll(ctx context.Context) ([]domain.User, error)
}
