package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoAccount marks an absent account or counter account on a posting.
const NoAccount = 0

// Posting is one raw, user-entered row of a transaction.
// A posting with CounterAccount set is shorthand for two single-sided legs.
type Posting struct {
	GroupID            string              `json:"groupId" yaml:"group_id"`                       // Groups rows of one transaction
	Date               time.Time           `json:"date" yaml:"date"`                              // Shared by every row of the group
	Account            int                 `json:"account" yaml:"account"`                        // NoAccount when absent
	CounterAccount     int                 `json:"counterAccount" yaml:"counter_account"`         // Optional second leg
	Currency           string              `json:"currency" yaml:"currency"`                      // Currency of Amount
	Amount             decimal.NullDecimal `json:"amount" yaml:"amount"`                          // Null only for legacy target-balance rows
	BaseCurrencyAmount decimal.NullDecimal `json:"baseCurrencyAmount" yaml:"base_currency_amount"` // Derived when null
	TargetBalance      decimal.NullDecimal `json:"targetBalance" yaml:"target_balance"`           // Deprecated: desired resulting balance
	TaxCode            string              `json:"taxCode" yaml:"tax_code"`                       // Empty when none
	Description        string              `json:"description" yaml:"description"`
	Document           string              `json:"document" yaml:"document"` // Empty when none
}

// HasAmount reports whether the posting carries an explicit amount.
func (p Posting) HasAmount() bool { return p.Amount.Valid }

// LedgerEntry is one single-sided row of the serialized (long-form) journal.
// All amounts are resolved.
type LedgerEntry struct {
	GroupID            string          `json:"groupId"`
	Date               time.Time       `json:"date"`
	Account            int             `json:"account"`
	CounterAccount     int             `json:"counterAccount"` // The other leg, for traceability
	Currency           string          `json:"currency"`
	Amount             decimal.Decimal `json:"amount"`
	BaseCurrencyAmount decimal.Decimal `json:"baseCurrencyAmount"`
	TaxCode            string          `json:"taxCode"`
	Description        string          `json:"description"`
	Document           string          `json:"document"`
}

// SerializedJournal is the completed, long-form journal sorted by date and group id.
type SerializedJournal []LedgerEntry

// Until returns the entries dated on or before date.
func (j SerializedJournal) Until(date time.Time) SerializedJournal {
	out := make(SerializedJournal, 0, len(j))
	for _, e := range j {
		if !e.Date.After(date) {
			out = append(out, e)
		}
	}
	return out
}

// ForAccounts returns the entries booked on any of the given accounts.
func (j SerializedJournal) ForAccounts(accounts map[int]struct{}) SerializedJournal {
	out := make(SerializedJournal, 0)
	for _, e := range j {
		if _, ok := accounts[e.Account]; ok {
			out = append(out, e)
		}
	}
	return out
}
