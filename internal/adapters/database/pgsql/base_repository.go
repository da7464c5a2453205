package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// inTx runs fn in a transaction, committing on success.
func (r *BaseRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored after a successful commit
	defer r.Rollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// keyedTable describes how a table maps rows to the string keys used by the ports.
type keyedTable struct {
	name    string
	keyExpr string // SQL expression rendering the row key
}

// deleteKeys removes the rows matching keys inside tx. Without allowMissing,
// any key that matched nothing fails the whole call.
func (t keyedTable) deleteKeys(ctx context.Context, tx pgx.Tx, keys []string, allowMissing bool) error {
	if len(keys) == 0 {
		return nil
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ANY($1) RETURNING %s", t.name, t.keyExpr, t.keyExpr)
	rows, err := tx.Query(ctx, query, keys)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", t.name, err)
	}
	deleted, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", t.name, err)
	}
	if allowMissing {
		return nil
	}
	found := make(map[string]struct{}, len(deleted))
	for _, k := range deleted {
		found[k] = struct{}{}
	}
	var missing []string
	for _, k := range keys {
		if _, ok := found[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s keys %s", apperrors.ErrNotFound, t.name, strings.Join(missing, ", "))
	}
	return nil
}

// execBatch sends queued statements and maps unique violations to ErrDuplicate.
// Statements that must touch a row report ErrNotFound when requireRow is set.
func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, keys []string, requireRow bool) error {
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for _, key := range keys {
		tag, err := results.Exec()
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: key '%s'", apperrors.ErrDuplicate, key)
			}
			return fmt.Errorf("failed to write key '%s': %w", key, err)
		}
		if requireRow && tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: key '%s'", apperrors.ErrNotFound, key)
		}
	}
	return results.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
