package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// TransactionKey renders the rows of one transaction to a canonical string:
// the date followed by the sorted canonical encodings of its rows, group ids
// excluded. Row order and numeric representation do not affect the key.
func TransactionKey(rows []domain.Posting) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	encoded := make([]string, 0, len(rows))
	for _, p := range rows {
		// map keys are marshalled in sorted order
		b, err := json.Marshal(map[string]any{
			"account":              nullableInt(p.Account),
			"counter_account":      nullableInt(p.CounterAccount),
			"currency":             nullableString(p.Currency),
			"amount":               canonicalDecimal(p.Amount),
			"base_currency_amount": canonicalDecimal(p.BaseCurrencyAmount),
			"target_balance":       canonicalDecimal(p.TargetBalance),
			"tax_code":             nullableString(p.TaxCode),
			"description":          nullableString(p.Description),
			"document":             nullableString(p.Document),
		})
		if err != nil {
			return "", fmt.Errorf("failed to encode transaction row: %w", err)
		}
		encoded = append(encoded, string(b))
	}
	sort.Strings(encoded)
	date := ""
	if !rows[0].Date.IsZero() {
		date = rows[0].Date.Format(domain.DateLayout)
	}
	return date + ",[" + strings.Join(encoded, ",") + "]", nil
}

func canonicalDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(i int) any {
	if i == domain.NoAccount {
		return nil
	}
	return i
}

type keyedTransactions struct {
	order []string                    // content keys in first-seen order
	ids   map[string][]string         // content key -> group ids in order
	rows  map[string][]domain.Posting // content key -> rows of the first transaction
	total int
}

func indexTransactions(postings []domain.Posting) (keyedTransactions, error) {
	idx := keyedTransactions{ids: map[string][]string{}, rows: map[string][]domain.Posting{}}
	order, groups := transactionGroups(postings)
	for _, id := range order {
		rows := make([]domain.Posting, 0, len(groups[id]))
		for _, i := range groups[id] {
			rows = append(rows, postings[i])
		}
		key, err := TransactionKey(rows)
		if err != nil {
			return idx, err
		}
		if _, ok := idx.ids[key]; !ok {
			idx.order = append(idx.order, key)
			idx.rows[key] = rows
		}
		idx.ids[key] = append(idx.ids[key], id)
		idx.total++
	}
	return idx, nil
}

// checkUniqueDates fails when one group id of target spans several dates.
func checkUniqueDates(target []domain.Posting) error {
	dates := map[string]string{}
	for _, p := range target {
		d := p.Date.Format(domain.DateLayout)
		if prev, ok := dates[p.GroupID]; ok && prev != d {
			return fmt.Errorf("%w: non-unique dates in target transactions (group '%s')", apperrors.ErrDuplicate, p.GroupID)
		}
		dates[p.GroupID] = d
	}
	return nil
}

// MirrorJournal converges the stored journal towards target, matching
// transactions as a multiset of content keys. For every key, missing copies
// are added and, when delete is set, surplus copies are deleted (the most
// recently listed ones first). Updates never occur.
func MirrorJournal(ctx context.Context, repo portsrepo.JournalRepositoryFacade, target []domain.Posting, delete bool) (domain.MirrorResult, error) {
	target, err := mapping.StandardizePostings(target)
	if err != nil {
		return domain.MirrorResult{}, err
	}
	if err := checkUniqueDates(target); err != nil {
		return domain.MirrorResult{}, err
	}
	stored, err := repo.List(ctx)
	if err != nil {
		return domain.MirrorResult{}, fmt.Errorf("failed to list journal: %w", err)
	}
	current, err := mapping.StandardizePostings(stored)
	if err != nil {
		return domain.MirrorResult{}, err
	}

	want, err := indexTransactions(target)
	if err != nil {
		return domain.MirrorResult{}, err
	}
	have, err := indexTransactions(current)
	if err != nil {
		return domain.MirrorResult{}, err
	}

	result := domain.MirrorResult{Initial: have.total, Target: want.total}

	if delete {
		var doomed []string
		for _, key := range have.order {
			ids := have.ids[key]
			if n := len(ids) - len(want.ids[key]); n > 0 {
				doomed = append(doomed, ids[len(ids)-n:]...)
			}
		}
		if len(doomed) > 0 {
			if err := repo.Delete(ctx, doomed, false); err != nil {
				return result, fmt.Errorf("failed to delete transactions: %w", err)
			}
			result.Deleted = len(doomed)
		}
	}

	for _, key := range want.order {
		n := len(want.ids[key]) - len(have.ids[key])
		for i := 0; i < n; i++ {
			if _, err := repo.AddTransaction(ctx, want.rows[key]); err != nil {
				return result, fmt.Errorf("failed to add transaction: %w", err)
			}
			result.Added++
		}
	}
	return result, nil
}
