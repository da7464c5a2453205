package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Account is a row of the account chart.
type Account struct {
	Number         int            `db:"number"`
	Currency       string         `db:"currency"`
	Description    sql.NullString `db:"description"`
	DefaultTaxCode sql.NullString `db:"default_tax_code"`
	AccountGroup   sql.NullString `db:"account_group"`
	AuditFields
}

// TaxCode is a stored tax code definition.
type TaxCode struct {
	ID             string          `db:"id"`
	Description    sql.NullString  `db:"description"`
	Rate           decimal.Decimal `db:"rate"`
	Inclusive      bool            `db:"inclusive"`
	Account        sql.NullInt64   `db:"account"`
	InverseAccount sql.NullInt64   `db:"inverse_account"`
	AuditFields
}
