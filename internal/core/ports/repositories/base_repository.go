package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// EntityReader defines read operations for a tabular entity
type EntityReader[T any] interface {
	// List returns every row of the entity.
	List(ctx context.Context) ([]T, error)
}

// EntityWriter defines write operations for a tabular entity
type EntityWriter[T any] interface {
	// Add inserts rows. It fails with apperrors.ErrDuplicate when a key already exists.
	Add(ctx context.Context, rows []T) error

	// Modify replaces rows by key. It fails with apperrors.ErrNotFound when a key is missing.
	Modify(ctx context.Context, rows []T) error

	// Delete removes rows by key. Missing keys fail with apperrors.ErrNotFound unless allowMissing.
	Delete(ctx context.Context, keys []string, allowMissing bool) error
}

// TabularEntity combines the read and write contract every stored entity kind implements
type TabularEntity[T any] interface {
	EntityReader[T]
	EntityWriter[T]
}
