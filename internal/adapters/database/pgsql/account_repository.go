package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var accountsTable = keyedTable{name: "accounts", keyExpr: "number::text"}

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for the account chart.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// List retrieves the account chart ordered by number.
func (r *PgxAccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT number, currency, description, default_tax_code, account_group, created_at, last_updated_at
		FROM accounts
		ORDER BY number;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		var m models.Account
		err := row.Scan(&m.Number, &m.Currency, &m.Description, &m.DefaultTaxCode, &m.AccountGroup, &m.CreatedAt, &m.LastUpdatedAt)
		return mapping.ToDomainAccount(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}
	return accounts, nil
}

// Add inserts new accounts.
func (r *PgxAccountRepository) Add(ctx context.Context, accounts []domain.Account) error {
	query := `
		INSERT INTO accounts (number, currency, description, default_tax_code, account_group, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6);
	`
	return r.write(ctx, query, accounts, false)
}

// Modify replaces existing accounts by number.
func (r *PgxAccountRepository) Modify(ctx context.Context, accounts []domain.Account) error {
	query := `
		UPDATE accounts
		SET currency = $2, description = $3, default_tax_code = $4, account_group = $5, last_updated_at = $6
		WHERE number = $1;
	`
	return r.write(ctx, query, accounts, true)
}

func (r *PgxAccountRepository) write(ctx context.Context, query string, accounts []domain.Account, requireRow bool) error {
	if len(accounts) == 0 {
		return nil
	}
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	keys := make([]string, 0, len(accounts))
	for _, a := range accounts {
		m := mapping.ToModelAccount(a)
		batch.Queue(query, m.Number, m.Currency, m.Description, m.DefaultTaxCode, m.AccountGroup, now)
		keys = append(keys, a.Key())
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return execBatch(ctx, tx, batch, keys, requireRow)
	})
}

// Delete removes accounts by number.
func (r *PgxAccountRepository) Delete(ctx context.Context, keys []string, allowMissing bool) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return accountsTable.deleteKeys(ctx, tx, keys, allowMissing)
	})
}
