package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Price is an observation of Ticker quoted in Currency, valid from Date until
// the next observation for the same pair.
type Price struct {
	Ticker   string          `json:"ticker" yaml:"ticker"`
	Currency string          `json:"currency" yaml:"currency"`
	Date     time.Time       `json:"date" yaml:"date"`
	Price    decimal.Decimal `json:"price" yaml:"price"`
}

// Key returns the identifier used for reconciliation.
func (p Price) Key() string {
	return strings.Join([]string{p.Ticker, p.Currency, p.Date.Format(DateLayout)}, "|")
}

// FxAdjustment schedules a revaluation of the foreign-currency balances of
// the accounts in Range as of Date.
type FxAdjustment struct {
	Date          time.Time `json:"date" yaml:"date"`
	Range         string    `json:"range" yaml:"range"` // Account range expression
	CreditAccount int       `json:"creditAccount" yaml:"credit_account"`
	DebitAccount  int       `json:"debitAccount" yaml:"debit_account"`
	Description   string    `json:"description" yaml:"description"`
}

// Key returns the identifier used for reconciliation.
func (f FxAdjustment) Key() string {
	return f.Date.Format(DateLayout) + "|" + f.Range
}
