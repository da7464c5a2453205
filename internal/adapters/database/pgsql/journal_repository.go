package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// defaultPageSize bounds the rows fetched per round trip when listing the journal.
const defaultPageSize = 1000

var journalTable = keyedTable{name: "journal_postings", keyExpr: "group_id"}

type PgxJournalRepository struct {
	BaseRepository
	pageSize int
}

func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}, pageSize: defaultPageSize}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// List retrieves every posting ordered by date, group id and input order.
func (r *PgxJournalRepository) List(ctx context.Context) ([]domain.Posting, error) {
	var out []domain.Posting
	var token *string
	for {
		page, next, err := r.ListPage(ctx, r.pageSize, token)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if next == nil {
			return out, nil
		}
		token = next
	}
}

// ListPage retrieves up to limit postings after nextToken using keyset pagination.
// The returned token is nil on the last page.
func (r *PgxJournalRepository) ListPage(ctx context.Context, limit int, nextToken *string) ([]domain.Posting, *string, error) {
	baseQuery := `
		SELECT posting_id, group_id, seq, date, account, counter_account, currency,
			amount, base_currency_amount, target_balance, tax_code, description, document,
			created_at, last_updated_at
		FROM journal_postings`
	orderByClause := `ORDER BY date, group_id, seq`

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewValidationError(decodeErr.Error())
		}
		query := baseQuery + ` WHERE (date, group_id, seq) > ($1, $2, $3) ` + orderByClause + ` LIMIT $4;`
		rows, err = r.Pool.Query(ctx, query, cursor.Date, cursor.GroupID, cursor.Seq, limit+1)
	} else {
		query := baseQuery + ` ` + orderByClause + ` LIMIT $1;`
		rows, err = r.Pool.Query(ctx, query, limit+1)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal postings: %w", err)
	}

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Posting, error) {
		var m models.Posting
		err := row.Scan(&m.PostingID, &m.GroupID, &m.Seq, &m.Date, &m.Account, &m.CounterAccount, &m.Currency,
			&m.Amount, &m.BaseCurrencyAmount, &m.TargetBalance, &m.TaxCode, &m.Description, &m.Document,
			&m.CreatedAt, &m.LastUpdatedAt)
		return m, err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan journal postings: %w", err)
	}

	// One extra row was requested to detect a further page
	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, GroupID: last.GroupID, Seq: last.Seq})
		next = &token
	}

	postings := make([]domain.Posting, len(ms))
	for i, m := range ms {
		postings[i] = mapping.ToDomainPosting(m)
	}
	return postings, next, nil
}

// Add inserts whole transactions under their own group ids. Rows without a
// group id are grouped by mapping.AssignGroupIDs under new uuids.
func (r *PgxJournalRepository) Add(ctx context.Context, postings []domain.Posting) error {
	postings, err := mapping.AssignGroupIDs(postings, uuid.NewString)
	if err != nil {
		return err
	}
	order, groups := groupPostings(postings)
	if len(order) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		var existing []string
		rows, err := tx.Query(ctx, `SELECT DISTINCT group_id FROM journal_postings WHERE group_id = ANY($1);`, order)
		if err != nil {
			return fmt.Errorf("failed to check journal group ids: %w", err)
		}
		if existing, err = pgx.CollectRows(rows, pgx.RowTo[string]); err != nil {
			return fmt.Errorf("failed to check journal group ids: %w", err)
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: journal group id '%s'", apperrors.ErrDuplicate, existing[0])
		}
		return insertPostings(ctx, tx, order, groups)
	})
}

// Modify replaces the rows of existing transactions.
func (r *PgxJournalRepository) Modify(ctx context.Context, postings []domain.Posting) error {
	order, groups := groupPostings(postings)
	if len(order) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := journalTable.deleteKeys(ctx, tx, order, false); err != nil {
			return err
		}
		return insertPostings(ctx, tx, order, groups)
	})
}

// Delete removes every row of the given group ids.
func (r *PgxJournalRepository) Delete(ctx context.Context, groupIDs []string, allowMissing bool) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return journalTable.deleteKeys(ctx, tx, groupIDs, allowMissing)
	})
}

// AddTransaction stores rows under a freshly generated group id.
func (r *PgxJournalRepository) AddTransaction(ctx context.Context, rows []domain.Posting) (string, error) {
	groupID := uuid.NewString()
	assigned := make([]domain.Posting, len(rows))
	for i, p := range rows {
		p.GroupID = groupID
		assigned[i] = p
	}
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		return insertPostings(ctx, tx, []string{groupID}, map[string][]domain.Posting{groupID: assigned})
	})
	if err != nil {
		return "", err
	}
	return groupID, nil
}

// groupPostings splits postings by group id, keeping first-seen order.
func groupPostings(postings []domain.Posting) ([]string, map[string][]domain.Posting) {
	var order []string
	groups := map[string][]domain.Posting{}
	for _, p := range postings {
		if _, ok := groups[p.GroupID]; !ok {
			order = append(order, p.GroupID)
		}
		groups[p.GroupID] = append(groups[p.GroupID], p)
	}
	return order, groups
}

func insertPostings(ctx context.Context, tx pgx.Tx, order []string, groups map[string][]domain.Posting) error {
	query := `
		INSERT INTO journal_postings (
			posting_id, group_id, seq, date, account, counter_account, currency,
			amount, base_currency_amount, target_balance, tax_code, description, document,
			created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14);
	`
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	var keys []string
	for _, id := range order {
		for seq, p := range groups[id] {
			m := mapping.ToModelPosting(p, seq)
			m.PostingID = uuid.NewString()
			batch.Queue(query, m.PostingID, m.GroupID, m.Seq, m.Date, m.Account, m.CounterAccount, m.Currency,
				m.Amount, m.BaseCurrencyAmount, m.TargetBalance, m.TaxCode, m.Description, m.Document, now)
			keys = append(keys, id)
		}
	}
	return execBatch(ctx, tx, batch, keys, false)
}
