// ABOUTME: Store interface and data types for paperchat-gateway persistence
// ABOUTME: Defines the Account struct and the AccountStore interface for credential storage

package store

import (
	"context"
	"errors"
	"time"
)

// ErrAccountNotFound is returned when a requested account does not exist
var ErrAccountNotFound = errors.New("account not found")

// ErrDuplicateIdentity is returned when an insert collides with an existing
// email or username. Uniqueness is enforced by the database, so concurrent
// registrations racing on the same identity resolve to exactly one winner.
var ErrDuplicateIdentity = errors.New("email or username already exists")

// Account represents a registered user account.
// PasswordHash holds the bcrypt digest; the plaintext is never stored.
type Account struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountStore defines the interface for credential persistence
type AccountStore interface {
	// CreateAccount inserts a new account. Returns ErrDuplicateIdentity if the
	// email or username is already taken. The insert is atomic - a failed
	// insert leaves no partial state.
	CreateAccount(ctx context.Context, account *Account) error

	// GetAccountByUsername retrieves an account by username.
	// Returns ErrAccountNotFound if no such account exists.
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)

	// GetAccountByID retrieves an account by ID.
	// Returns ErrAccountNotFound if no such account exists.
	GetAccountByID(ctx context.Context, id string) (*Account, error)

	// CountAccounts returns the total number of registered accounts.
	CountAccounts(ctx context.Context) (int, error)

	// Close releases the underlying database handle.
	Close() error
}
