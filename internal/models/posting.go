package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Posting is one stored journal row. Rows of a transaction share GroupID
// and keep their input order through Seq.
type Posting struct {
	PostingID          string              `db:"posting_id"` // Primary Key (UUID)
	GroupID            string              `db:"group_id"`
	Seq                int                 `db:"seq"`
	Date               time.Time           `db:"date"`
	Account            sql.NullInt64       `db:"account"`
	CounterAccount     sql.NullInt64       `db:"counter_account"`
	Currency           sql.NullString      `db:"currency"`
	Amount             decimal.NullDecimal `db:"amount"`
	BaseCurrencyAmount decimal.NullDecimal `db:"base_currency_amount"`
	TargetBalance      decimal.NullDecimal `db:"target_balance"`
	TaxCode            sql.NullString      `db:"tax_code"`
	Description        sql.NullString      `db:"description"`
	Document           sql.NullString      `db:"document"`
	AuditFields
}
