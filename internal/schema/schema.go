// Package schema normalizes loosely typed tabular input into the canonical
// column set and types of one entity kind.
package schema

// ColumnType is the canonical type of a column.
type ColumnType int

const (
	String ColumnType = iota
	Int
	Decimal
	Date
	Bool
)

func (t ColumnType) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Decimal:
		return "decimal"
	case Date:
		return "date"
	case Bool:
		return "bool"
	}
	return "unknown"
}

// Column describes one column of an entity schema.
type Column struct {
	Name     string
	Type     ColumnType
	Required bool
	ID       bool // Part of the identifier
}

// Schema is the canonical shape of one entity kind.
type Schema struct {
	Entity  string
	Columns []Column
	Aliases map[string]string // Legacy column name -> canonical name
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

// IDColumns returns the names of the identifier columns.
func (s Schema) IDColumns() []string {
	var out []string
	for _, c := range s.Columns {
		if c.ID {
			out = append(out, c.Name)
		}
	}
	return out
}

// Column returns the definition of name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Row maps column names to cell values. A nil value is null.
type Row map[string]any

// Table is a loosely typed table: the column list is kept so that an empty
// table still has a shape.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds a table from rows, collecting columns in first-seen order.
func NewTable(rows ...Row) *Table {
	t := &Table{}
	seen := map[string]struct{}{}
	for _, r := range rows {
		for _, c := range sortedKeys(r) {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				t.Columns = append(t.Columns, c)
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column names of the journal, accounts, tax codes, prices and FX rules.
const (
	ColGroupID            = "group_id"
	ColDate               = "date"
	ColAccount            = "account"
	ColCounterAccount     = "counter_account"
	ColCurrency           = "currency"
	ColAmount             = "amount"
	ColBaseCurrencyAmount = "base_currency_amount"
	ColTargetBalance      = "target_balance"
	ColTaxCode            = "tax_code"
	ColDescription        = "description"
	ColDocument           = "document"

	ColNumber         = "number"
	ColDefaultTaxCode = "default_tax_code"
	ColGroup          = "group"

	ColID             = "id"
	ColRate           = "rate"
	ColInclusive      = "inclusive"
	ColInverseAccount = "inverse_account"

	ColTicker = "ticker"
	ColPrice  = "price"

	ColRange         = "range"
	ColCreditAccount = "credit_account"
	ColDebitAccount  = "debit_account"
)

// JournalSchema describes raw journal postings.
var JournalSchema = Schema{
	Entity: "journal",
	Columns: []Column{
		{Name: ColGroupID, Type: String, ID: true},
		{Name: ColDate, Type: Date, Required: true},
		{Name: ColAccount, Type: Int, Required: true},
		{Name: ColCounterAccount, Type: Int},
		{Name: ColCurrency, Type: String, Required: true},
		{Name: ColAmount, Type: Decimal},
		{Name: ColBaseCurrencyAmount, Type: Decimal},
		{Name: ColTargetBalance, Type: Decimal},
		{Name: ColTaxCode, Type: String},
		{Name: ColDescription, Type: String},
		{Name: ColDocument, Type: String},
	},
	Aliases: map[string]string{
		"id":          ColGroupID,
		"text":        ColDescription,
		"vat_code":    ColTaxCode,
		"counter":     ColCounterAccount,
		"base_amount": ColBaseCurrencyAmount,
	},
}

// AccountSchema describes the account chart.
var AccountSchema = Schema{
	Entity: "account",
	Columns: []Column{
		{Name: ColNumber, Type: Int, Required: true, ID: true},
		{Name: ColCurrency, Type: String, Required: true},
		{Name: ColDescription, Type: String},
		{Name: ColDefaultTaxCode, Type: String},
		{Name: ColGroup, Type: String},
	},
	Aliases: map[string]string{
		"account":  ColNumber,
		"text":     ColDescription,
		"vat_code": ColDefaultTaxCode,
		"tax_code": ColDefaultTaxCode,
	},
}

// TaxCodeSchema describes tax codes.
var TaxCodeSchema = Schema{
	Entity: "tax_code",
	Columns: []Column{
		{Name: ColID, Type: String, Required: true, ID: true},
		{Name: ColDescription, Type: String},
		{Name: ColRate, Type: Decimal, Required: true},
		{Name: ColInclusive, Type: Bool, Required: true},
		{Name: ColAccount, Type: Int},
		{Name: ColInverseAccount, Type: Int},
	},
	Aliases: map[string]string{"text": ColDescription},
}

// PriceSchema describes price observations.
var PriceSchema = Schema{
	Entity: "price",
	Columns: []Column{
		{Name: ColTicker, Type: String, Required: true, ID: true},
		{Name: ColCurrency, Type: String, Required: true, ID: true},
		{Name: ColDate, Type: Date, Required: true, ID: true},
		{Name: ColPrice, Type: Decimal, Required: true},
	},
}

// FxAdjustmentSchema describes FX revaluation rules.
var FxAdjustmentSchema = Schema{
	Entity: "fx_adjustment",
	Columns: []Column{
		{Name: ColDate, Type: Date, Required: true, ID: true},
		{Name: ColRange, Type: String, Required: true, ID: true},
		{Name: ColCreditAccount, Type: Int, Required: true},
		{Name: ColDebitAccount, Type: Int, Required: true},
		{Name: ColDescription, Type: String},
	},
	Aliases: map[string]string{
		"adjust": ColRange,
		"credit": ColCreditAccount,
		"debit":  ColDebitAccount,
		"text":   ColDescription,
	},
}
