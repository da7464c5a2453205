package services

import (
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// BalanceEngine computes balances and histories over a serialized journal.
type BalanceEngine struct {
	journal  domain.SerializedJournal
	chart    map[int]domain.Account
	settings *domain.Settings
}

// NewBalanceEngine builds an engine over journal for the given chart.
func NewBalanceEngine(journal domain.SerializedJournal, accounts []domain.Account, settings *domain.Settings) *BalanceEngine {
	chart, _ := chartIndex(accounts)
	return &BalanceEngine{journal: journal, chart: chart, settings: settings}
}

// Balance sums the add accounts minus the subtract accounts of rng up to and
// including date (zero date: everything), rounded per currency.
func (e *BalanceEngine) Balance(rng domain.AccountRange, date time.Time) (domain.Balance, error) {
	total := domain.NewBalance()
	for _, a := range rng.Add {
		total = total.Add(accountBalance(e.journal, a, date, e.chart[a].Currency))
	}
	for _, a := range rng.Subtract {
		total = total.Sub(accountBalance(e.journal, a, date, e.chart[a].Currency))
	}
	return e.round(total)
}

// PeriodBalance returns balance(end) - balance(start - 1 day).
func (e *BalanceEngine) PeriodBalance(rng domain.AccountRange, period domain.Period) (domain.Balance, error) {
	end, err := e.Balance(rng, period.End)
	if err != nil {
		return domain.Balance{}, err
	}
	if period.Start.IsZero() {
		return end, nil
	}
	start, err := e.Balance(rng, period.Start.AddDate(0, 0, -1))
	if err != nil {
		return domain.Balance{}, err
	}
	return e.round(end.Sub(start))
}

// History returns the entries of the accounts in rng, sorted by date, with
// running balances accumulated over the full history and then restricted to period.
func (e *BalanceEngine) History(rng domain.AccountRange, period domain.Period) []domain.HistoryEntry {
	accounts := map[int]struct{}{}
	for _, a := range rng.Accounts() {
		accounts[a] = struct{}{}
	}
	entries := e.journal.ForAccounts(accounts)
	if !period.End.IsZero() {
		entries = entries.Until(period.End)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	out := make([]domain.HistoryEntry, 0, len(entries))
	running := domain.HistoryEntry{}
	for _, entry := range entries {
		running = domain.HistoryEntry{
			LedgerEntry:         entry,
			Balance:             running.Balance.Add(entry.Amount),
			BaseCurrencyBalance: running.BaseCurrencyBalance.Add(entry.BaseCurrencyAmount),
		}
		if !period.Start.IsZero() && entry.Date.Before(period.Start) {
			continue
		}
		out = append(out, running)
	}
	return out
}

func (e *BalanceEngine) round(b domain.Balance) (domain.Balance, error) {
	out := domain.NewBalance()
	p, err := e.settings.PrecisionOf(domain.BaseCurrencyTicker)
	if err != nil {
		return domain.Balance{}, err
	}
	out.BaseCurrency = accounting.RoundToPrecision(b.BaseCurrency, p)
	for currency, v := range b.Amounts {
		p, err := e.settings.PrecisionOf(currency)
		if err != nil {
			return domain.Balance{}, err
		}
		out.Amounts[currency] = accounting.RoundToPrecision(v, p)
	}
	return out, nil
}
