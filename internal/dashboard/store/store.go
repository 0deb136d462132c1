package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/batterydash/internal/dashboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by concrete drivers.
// Sub-repositories are reached through methods so a Tx cannot start another
// transaction.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST call Commit() or
	// Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByEmail matches email ignoring ASCII case. Non-ASCII letters
	// must match exactly.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ExistsByEmail matches email ignoring ASCII case.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CreateUser inserts u. A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error
}
