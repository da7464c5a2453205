package mapping

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/schema"
	"github.com/shopspring/decimal"
)

// Cell accessors for standardized rows. They assume values produced by schema.Coerce.

func str(r schema.Row, col string) string {
	if s, ok := r[col].(string); ok {
		return s
	}
	return ""
}

func integer(r schema.Row, col string) int {
	if i, ok := r[col].(int); ok {
		return i
	}
	return domain.NoAccount
}

func dec(r schema.Row, col string) decimal.NullDecimal {
	if d, ok := r[col].(decimal.Decimal); ok {
		return decimal.NewNullDecimal(d)
	}
	return decimal.NullDecimal{}
}

func date(r schema.Row, col string) time.Time {
	if d, ok := r[col].(time.Time); ok {
		return d
	}
	return time.Time{}
}

func boolean(r schema.Row, col string) bool {
	b, _ := r[col].(bool)
	return b
}

// TableToPostings standardizes t as a journal and converts it to postings.
func TableToPostings(t *schema.Table) ([]domain.Posting, error) {
	std, err := schema.StandardizeJournal(t)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Posting, 0, len(std.Rows))
	for _, r := range std.Rows {
		out = append(out, domain.Posting{
			GroupID:            str(r, schema.ColGroupID),
			Date:               date(r, schema.ColDate),
			Account:            integer(r, schema.ColAccount),
			CounterAccount:     integer(r, schema.ColCounterAccount),
			Currency:           str(r, schema.ColCurrency),
			Amount:             dec(r, schema.ColAmount),
			BaseCurrencyAmount: dec(r, schema.ColBaseCurrencyAmount),
			TargetBalance:      dec(r, schema.ColTargetBalance),
			TaxCode:            str(r, schema.ColTaxCode),
			Description:        str(r, schema.ColDescription),
			Document:           str(r, schema.ColDocument),
		})
	}
	return out, nil
}

// PostingsToTable renders postings as a journal table.
func PostingsToTable(postings []domain.Posting) *schema.Table {
	t := &schema.Table{Columns: schema.JournalSchema.Names()}
	for _, p := range postings {
		t.Rows = append(t.Rows, schema.Row{
			schema.ColGroupID:            nullString(p.GroupID),
			schema.ColDate:               nullDate(p.Date),
			schema.ColAccount:            nullInt(p.Account),
			schema.ColCounterAccount:     nullInt(p.CounterAccount),
			schema.ColCurrency:           nullString(p.Currency),
			schema.ColAmount:             nullDecimal(p.Amount),
			schema.ColBaseCurrencyAmount: nullDecimal(p.BaseCurrencyAmount),
			schema.ColTargetBalance:      nullDecimal(p.TargetBalance),
			schema.ColTaxCode:            nullString(p.TaxCode),
			schema.ColDescription:        nullString(p.Description),
			schema.ColDocument:           nullString(p.Document),
		})
	}
	return t
}

// TableToAccounts standardizes t as an account chart.
func TableToAccounts(t *schema.Table) ([]domain.Account, error) {
	std, err := schema.Standardize(schema.AccountSchema, t)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(std.Rows))
	for i, r := range std.Rows {
		a := domain.Account{
			Number:         integer(r, schema.ColNumber),
			Currency:       str(r, schema.ColCurrency),
			Description:    str(r, schema.ColDescription),
			DefaultTaxCode: str(r, schema.ColDefaultTaxCode),
			Group:          str(r, schema.ColGroup),
		}
		if a.Number <= 0 {
			return nil, fmt.Errorf("%w: account row %d has no positive account number", apperrors.ErrSchemaViolation, i)
		}
		out = append(out, a)
	}
	return out, nil
}

// TableToTaxCodes standardizes t as a tax code table.
func TableToTaxCodes(t *schema.Table) ([]domain.TaxCode, error) {
	std, err := schema.Standardize(schema.TaxCodeSchema, t)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TaxCode, 0, len(std.Rows))
	for _, r := range std.Rows {
		out = append(out, domain.TaxCode{
			ID:             str(r, schema.ColID),
			Description:    str(r, schema.ColDescription),
			Rate:           dec(r, schema.ColRate).Decimal,
			Inclusive:      boolean(r, schema.ColInclusive),
			Account:        integer(r, schema.ColAccount),
			InverseAccount: integer(r, schema.ColInverseAccount),
		})
	}
	return out, nil
}

// TableToPrices standardizes t as a price history.
func TableToPrices(t *schema.Table) ([]domain.Price, error) {
	std, err := schema.Standardize(schema.PriceSchema, t)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Price, 0, len(std.Rows))
	for _, r := range std.Rows {
		out = append(out, domain.Price{
			Ticker:   str(r, schema.ColTicker),
			Currency: str(r, schema.ColCurrency),
			Date:     date(r, schema.ColDate),
			Price:    dec(r, schema.ColPrice).Decimal,
		})
	}
	return out, nil
}

// TableToFxAdjustments standardizes t as FX revaluation rules.
func TableToFxAdjustments(t *schema.Table) ([]domain.FxAdjustment, error) {
	std, err := schema.Standardize(schema.FxAdjustmentSchema, t)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FxAdjustment, 0, len(std.Rows))
	for _, r := range std.Rows {
		out = append(out, domain.FxAdjustment{
			Date:          date(r, schema.ColDate),
			Range:         str(r, schema.ColRange),
			CreditAccount: integer(r, schema.ColCreditAccount),
			DebitAccount:  integer(r, schema.ColDebitAccount),
			Description:   str(r, schema.ColDescription),
		})
	}
	return out, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(i int) any {
	if i == domain.NoAccount {
		return nil
	}
	return i
}

func nullDate(d time.Time) any {
	if d.IsZero() {
		return nil
	}
	return d
}

func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal
}

// StandardizePostings runs typed postings through journal standardization:
// synthetic group ids when none are set, and date propagation within groups.
func StandardizePostings(postings []domain.Posting) ([]domain.Posting, error) {
	return TableToPostings(PostingsToTable(postings))
}

// AssignGroupIDs groups postings without a group id the way journal tables
// are read: a dated row opens a transaction and the undated rows after it
// join that transaction. Each opened transaction takes its id from newID.
// Dates are then propagated within every group.
func AssignGroupIDs(postings []domain.Posting, newID func() string) ([]domain.Posting, error) {
	out := make([]domain.Posting, len(postings))
	current := ""
	for i, p := range postings {
		if p.GroupID == "" {
			if current == "" || !p.Date.IsZero() {
				current = newID()
			}
			p.GroupID = current
		}
		out[i] = p
	}
	return StandardizePostings(out)
}
