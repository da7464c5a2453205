package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Balance holds per-currency totals plus the total converted to the base currency.
type Balance struct {
	BaseCurrency decimal.Decimal            `json:"baseCurrency"`
	Amounts      map[string]decimal.Decimal `json:"amounts"` // Keyed by currency
}

// NewBalance returns an empty balance.
func NewBalance() Balance {
	return Balance{BaseCurrency: decimal.Zero, Amounts: map[string]decimal.Decimal{}}
}

// Get returns the total in currency, zero when absent.
func (b Balance) Get(currency string) decimal.Decimal {
	if v, ok := b.Amounts[currency]; ok {
		return v
	}
	return decimal.Zero
}

// Currencies returns the currencies present, sorted.
func (b Balance) Currencies() []string {
	out := make([]string, 0, len(b.Amounts))
	for c := range b.Amounts {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Add returns b + o per currency.
func (b Balance) Add(o Balance) Balance {
	out := b.clone()
	out.BaseCurrency = out.BaseCurrency.Add(o.BaseCurrency)
	for c, v := range o.Amounts {
		out.Amounts[c] = out.Get(c).Add(v)
	}
	return out
}

// Sub returns b - o per currency.
func (b Balance) Sub(o Balance) Balance {
	return b.Add(o.Neg())
}

// Neg returns -b.
func (b Balance) Neg() Balance {
	out := NewBalance()
	out.BaseCurrency = b.BaseCurrency.Neg()
	for c, v := range b.Amounts {
		out.Amounts[c] = v.Neg()
	}
	return out
}

// Equal reports whether both balances hold the same totals. Missing
// currencies compare as zero.
func (b Balance) Equal(o Balance) bool {
	if !b.BaseCurrency.Equal(o.BaseCurrency) {
		return false
	}
	for c, v := range b.Amounts {
		if !v.Equal(o.Get(c)) {
			return false
		}
	}
	for c, v := range o.Amounts {
		if !v.Equal(b.Get(c)) {
			return false
		}
	}
	return true
}

func (b Balance) clone() Balance {
	out := NewBalance()
	out.BaseCurrency = b.BaseCurrency
	for c, v := range b.Amounts {
		out.Amounts[c] = v
	}
	return out
}

// HistoryEntry is a serialized journal row with running balances.
type HistoryEntry struct {
	LedgerEntry
	Balance             decimal.Decimal `json:"balance"`
	BaseCurrencyBalance decimal.Decimal `json:"baseCurrencyBalance"`
}

// AccountRange is the resolved form of an account range expression.
type AccountRange struct {
	Add      []int `json:"add"`
	Subtract []int `json:"subtract"`
}

// Accounts returns the sorted set of accounts in Add that are not in Subtract.
func (r AccountRange) Accounts() []int {
	sub := make(map[int]struct{}, len(r.Subtract))
	for _, a := range r.Subtract {
		sub[a] = struct{}{}
	}
	seen := make(map[int]struct{}, len(r.Add))
	out := make([]int, 0, len(r.Add))
	for _, a := range r.Add {
		if _, ok := sub[a]; ok {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Ints(out)
	return out
}
