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

// Matches domain.Price.Key
var pricesTable = keyedTable{
	name:    "prices",
	keyExpr: "ticker || '|' || currency || '|' || to_char(date, 'YYYY-MM-DD')",
}

type PgxPriceRepository struct {
	BaseRepository
}

func newPgxPriceRepository(pool *pgxpool.Pool) *PgxPriceRepository {
	return &PgxPriceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PriceRepositoryFacade = (*PgxPriceRepository)(nil)

// List retrieves the price history ordered by pair and date.
func (r *PgxPriceRepository) List(ctx context.Context) ([]domain.Price, error) {
	query := `
		SELECT ticker, currency, date, price, created_at, last_updated_at
		FROM prices
		ORDER BY ticker, currency, date;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	prices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Price, error) {
		var m models.Price
		err := row.Scan(&m.Ticker, &m.Currency, &m.Date, &m.Price, &m.CreatedAt, &m.LastUpdatedAt)
		return mapping.ToDomainPrice(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan prices: %w", err)
	}
	return prices, nil
}

func (r *PgxPriceRepository) Add(ctx context.Context, prices []domain.Price) error {
	query := `
		INSERT INTO prices (ticker, currency, date, price, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $5);
	`
	return r.write(ctx, query, prices, false)
}

func (r *PgxPriceRepository) Modify(ctx context.Context, prices []domain.Price) error {
	query := `
		UPDATE prices
		SET price = $4, last_updated_at = $5
		WHERE ticker = $1 AND currency = $2 AND date = $3;
	`
	return r.write(ctx, query, prices, true)
}

func (r *PgxPriceRepository) write(ctx context.Context, query string, prices []domain.Price, requireRow bool) error {
	if len(prices) == 0 {
		return nil
	}
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	keys := make([]string, 0, len(prices))
	for _, p := range prices {
		m := mapping.ToModelPrice(p)
		batch.Queue(query, m.Ticker, m.Currency, m.Date, m.Price, now)
		keys = append(keys, p.Key())
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return execBatch(ctx, tx, batch, keys, requireRow)
	})
}

func (r *PgxPriceRepository) Delete(ctx context.Context, keys []string, allowMissing bool) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return pricesTable.deleteKeys(ctx, tx, keys, allowMissing)
	})
}
