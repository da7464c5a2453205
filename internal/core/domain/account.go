package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Account is one entry of the account chart.
type Account struct {
	Number         int    `json:"number" yaml:"number"`                     // Primary Key, positive
	Currency       string `json:"currency" yaml:"currency"`                 // Functional currency
	Description    string `json:"description" yaml:"description"`
	DefaultTaxCode string `json:"defaultTaxCode" yaml:"default_tax_code"` // Empty when none
	Group          string `json:"group" yaml:"group"`                      // Presentational path, unused by the engine
}

// Key returns the identifier used for reconciliation.
func (a Account) Key() string { return strconv.Itoa(a.Number) }

// TaxCode defines how tax is derived for postings carrying it.
type TaxCode struct {
	ID             string          `json:"id" yaml:"id"` // Primary Key
	Description    string          `json:"description" yaml:"description"`
	Rate           decimal.Decimal `json:"rate" yaml:"rate"`           // >= 0
	Inclusive      bool            `json:"inclusive" yaml:"inclusive"` // Rate applies to the gross amount
	Account        int             `json:"account" yaml:"account"`     // Required when Rate != 0
	InverseAccount int             `json:"inverseAccount" yaml:"inverse_account"`
}

// Key returns the identifier used for reconciliation.
func (t TaxCode) Key() string { return t.ID }
