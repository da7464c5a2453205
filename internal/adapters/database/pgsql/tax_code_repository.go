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

var taxCodesTable = keyedTable{name: "tax_codes", keyExpr: "id"}

type PgxTaxCodeRepository struct {
	BaseRepository
}

func newPgxTaxCodeRepository(pool *pgxpool.Pool) *PgxTaxCodeRepository {
	return &PgxTaxCodeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TaxCodeRepositoryFacade = (*PgxTaxCodeRepository)(nil)

func (r *PgxTaxCodeRepository) List(ctx context.Context) ([]domain.TaxCode, error) {
	query := `
		SELECT id, description, rate, inclusive, account, inverse_account, created_at, last_updated_at
		FROM tax_codes
		ORDER BY id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax codes: %w", err)
	}
	codes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TaxCode, error) {
		var m models.TaxCode
		err := row.Scan(&m.ID, &m.Description, &m.Rate, &m.Inclusive, &m.Account, &m.InverseAccount, &m.CreatedAt, &m.LastUpdatedAt)
		return mapping.ToDomainTaxCode(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan tax codes: %w", err)
	}
	return codes, nil
}

func (r *PgxTaxCodeRepository) Add(ctx context.Context, codes []domain.TaxCode) error {
	query := `
		INSERT INTO tax_codes (id, description, rate, inclusive, account, inverse_account, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7);
	`
	return r.write(ctx, query, codes, false)
}

func (r *PgxTaxCodeRepository) Modify(ctx context.Context, codes []domain.TaxCode) error {
	query := `
		UPDATE tax_codes
		SET description = $2, rate = $3, inclusive = $4, account = $5, inverse_account = $6, last_updated_at = $7
		WHERE id = $1;
	`
	return r.write(ctx, query, codes, true)
}

func (r *PgxTaxCodeRepository) write(ctx context.Context, query string, codes []domain.TaxCode, requireRow bool) error {
	if len(codes) == 0 {
		return nil
	}
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	keys := make([]string, 0, len(codes))
	for _, c := range codes {
		m := mapping.ToModelTaxCode(c)
		batch.Queue(query, m.ID, m.Description, m.Rate, m.Inclusive, m.Account, m.InverseAccount, now)
		keys = append(keys, c.Key())
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return execBatch(ctx, tx, batch, keys, requireRow)
	})
}

func (r *PgxTaxCodeRepository) Delete(ctx context.Context, keys []string, allowMissing bool) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return taxCodesTable.deleteKeys(ctx, tx, keys, allowMissing)
	})
}
