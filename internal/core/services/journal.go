package services

import (
	"sort"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// transactionGroups returns the group ids in first-seen order and the row
// indexes of each group.
func transactionGroups(postings []domain.Posting) ([]string, map[string][]int) {
	var order []string
	groups := map[string][]int{}
	for i, p := range postings {
		if _, ok := groups[p.GroupID]; !ok {
			order = append(order, p.GroupID)
		}
		groups[p.GroupID] = append(groups[p.GroupID], i)
	}
	return order, groups
}

// lessGroupID orders numeric ids numerically and everything else lexically,
// numbers first.
func lessGroupID(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	}
	return a < b
}

func lessByDateAndGroup(da, db time.Time, ga, gb string) bool {
	if !da.Equal(db) {
		return da.Before(db)
	}
	if ga != gb {
		return lessGroupID(ga, gb)
	}
	return false
}

// sortPostings orders postings by date, then group id, keeping row order within a group.
func sortPostings(postings []domain.Posting) {
	sort.SliceStable(postings, func(i, j int) bool {
		return lessByDateAndGroup(postings[i].Date, postings[j].Date, postings[i].GroupID, postings[j].GroupID)
	})
}

// serialize expands postings into single-sided entries. A posting with both
// sides yields one entry per side, the counter side negated. Postings without
// an amount are skipped; a missing base amount counts as zero.
func serialize(postings []domain.Posting) domain.SerializedJournal {
	out := make(domain.SerializedJournal, 0, 2*len(postings))
	for _, p := range postings {
		if !p.HasAmount() {
			continue
		}
		entry := domain.LedgerEntry{
			GroupID:            p.GroupID,
			Date:               p.Date,
			Currency:           p.Currency,
			Amount:             p.Amount.Decimal,
			BaseCurrencyAmount: p.BaseCurrencyAmount.Decimal,
			TaxCode:            p.TaxCode,
			Description:        p.Description,
			Document:           p.Document,
		}
		if p.Account != domain.NoAccount {
			e := entry
			e.Account = p.Account
			e.CounterAccount = p.CounterAccount
			out = append(out, e)
		}
		if p.CounterAccount != domain.NoAccount {
			e := entry
			e.Account = p.CounterAccount
			e.CounterAccount = p.Account
			e.Amount = entry.Amount.Neg()
			e.BaseCurrencyAmount = entry.BaseCurrencyAmount.Neg()
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lessByDateAndGroup(out[i].Date, out[j].Date, out[i].GroupID, out[j].GroupID)
	})
	return out
}

// accountBalance sums the entries of one account up to date (zero date: all).
// An account without entries has a zero balance in its own currency.
func accountBalance(journal domain.SerializedJournal, account int, date time.Time, currency string) domain.Balance {
	b := domain.NewBalance()
	n := 0
	for _, e := range journal {
		if e.Account != account || (!date.IsZero() && e.Date.After(date)) {
			continue
		}
		n++
		b.BaseCurrency = b.BaseCurrency.Add(e.BaseCurrencyAmount)
		b.Amounts[e.Currency] = b.Get(e.Currency).Add(e.Amount)
	}
	if n == 0 && currency != "" {
		b.Amounts[currency] = b.Get(currency)
	}
	return b
}

func chartIndex(accounts []domain.Account) (map[int]domain.Account, []int) {
	byNumber := make(map[int]domain.Account, len(accounts))
	numbers := make([]int, 0, len(accounts))
	for _, a := range accounts {
		byNumber[a.Number] = a
		numbers = append(numbers, a.Number)
	}
	sort.Ints(numbers)
	return byNumber, numbers
}
