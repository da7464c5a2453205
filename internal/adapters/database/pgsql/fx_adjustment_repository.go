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

// Matches domain.FxAdjustment.Key
var fxAdjustmentsTable = keyedTable{
	name:    "fx_adjustments",
	keyExpr: "to_char(date, 'YYYY-MM-DD') || '|' || account_range",
}

type PgxFxAdjustmentRepository struct {
	BaseRepository
}

func newPgxFxAdjustmentRepository(pool *pgxpool.Pool) *PgxFxAdjustmentRepository {
	return &PgxFxAdjustmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FxAdjustmentRepositoryFacade = (*PgxFxAdjustmentRepository)(nil)

// List retrieves the revaluation rules in the order they apply.
func (r *PgxFxAdjustmentRepository) List(ctx context.Context) ([]domain.FxAdjustment, error) {
	query := `
		SELECT date, account_range, credit_account, debit_account, description, created_at, last_updated_at
		FROM fx_adjustments
		ORDER BY date, account_range;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fx adjustments: %w", err)
	}
	rules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FxAdjustment, error) {
		var m models.FxAdjustment
		err := row.Scan(&m.Date, &m.AccountRange, &m.CreditAccount, &m.DebitAccount, &m.Description, &m.CreatedAt, &m.LastUpdatedAt)
		return mapping.ToDomainFxAdjustment(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan fx adjustments: %w", err)
	}
	return rules, nil
}

func (r *PgxFxAdjustmentRepository) Add(ctx context.Context, rules []domain.FxAdjustment) error {
	query := `
		INSERT INTO fx_adjustments (date, account_range, credit_account, debit_account, description, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6);
	`
	return r.write(ctx, query, rules, false)
}

func (r *PgxFxAdjustmentRepository) Modify(ctx context.Context, rules []domain.FxAdjustment) error {
	query := `
		UPDATE fx_adjustments
		SET credit_account = $3, debit_account = $4, description = $5, last_updated_at = $6
		WHERE date = $1 AND account_range = $2;
	`
	return r.write(ctx, query, rules, true)
}

func (r *PgxFxAdjustmentRepository) write(ctx context.Context, query string, rules []domain.FxAdjustment, requireRow bool) error {
	if len(rules) == 0 {
		return nil
	}
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	keys := make([]string, 0, len(rules))
	for _, f := range rules {
		m := mapping.ToModelFxAdjustment(f)
		batch.Queue(query, m.Date, m.AccountRange, m.CreditAccount, m.DebitAccount, m.Description, now)
		keys = append(keys, f.Key())
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return execBatch(ctx, tx, batch, keys, requireRow)
	})
}

func (r *PgxFxAdjustmentRepository) Delete(ctx context.Context, keys []string, allowMissing bool) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fxAdjustmentsTable.deleteKeys(ctx, tx, keys, allowMissing)
	})
}
