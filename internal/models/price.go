package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Price is one stored price observation.
type Price struct {
	Ticker   string          `db:"ticker"`
	Currency string          `db:"currency"`
	Date     time.Time       `db:"date"`
	Price    decimal.Decimal `db:"price"`
	AuditFields
}

// FxAdjustment is a stored FX revaluation rule.
type FxAdjustment struct {
	Date          time.Time      `db:"date"`
	AccountRange  string         `db:"account_range"`
	CreditAccount int            `db:"credit_account"`
	DebitAccount  int            `db:"debit_account"`
	Description   sql.NullString `db:"description"`
	AuditFields
}
