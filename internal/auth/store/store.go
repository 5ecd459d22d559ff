// Package store provides the durable email-keyed collection of accounts.
package store

import (
	"context"

	"github.com/tasktrail/tasktrail-backend/internal/auth/domain"
)

// CredentialStore is the durable mapping email -> account. Email matching
// is exact and case-sensitive. A miss on FindByEmail is a normal outcome,
// not an error.
type CredentialStore interface {
	// FindByEmail returns the account for email, or (nil, nil) when no
	// account matches.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)

	// FindByID returns the account with the given id, or
	// domain.ErrNotFound.
	FindByID(ctx context.Context, id string) (*domain.Account, error)

	// Insert appends a new account. Fails with domain.ErrDuplicateEmail
	// if an account with the same email already exists.
	Insert(ctx context.Context, acc *domain.Account) error

	// UpdatePassword replaces the stored credential for email. Fails
	// with domain.ErrNotFound if no account matches.
	UpdatePassword(ctx context.Context, email, passwordHash string) error

	// UpdateProfile replaces name and email on the account matching id.
	// Fails with domain.ErrNotFound if absent, and with
	// domain.ErrDuplicateEmail if the new email belongs to another
	// account.
	UpdateProfile(ctx context.Context, id, name, email string) (*domain.Account, error)

	// List returns every account, without any ordering guarantee.
	List(ctx context.Context) ([]domain.Account, error)
}
