package services_test

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func amt(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func day(year int, month time.Month, d int) time.Time {
	return domain.Date(year, month, d)
}

func testSettings() *domain.Settings {
	return &domain.Settings{
		BaseCurrency: "USD",
		Precision: map[string]decimal.Decimal{
			"USD": dec("0.01"),
			"EUR": dec("0.01"),
			"CHF": dec("0.05"),
		},
	}
}

func testChart() []domain.Account {
	return []domain.Account{
		{Number: 1000, Currency: "USD", Description: "Bank"},
		{Number: 1100, Currency: "EUR", Description: "Bank EUR"},
		{Number: 2200, Currency: "USD", Description: "VAT payable"},
		{Number: 3000, Currency: "USD", Description: "Equity"},
		{Number: 4000, Currency: "USD", Description: "Revenue", DefaultTaxCode: "VAT77"},
		{Number: 6000, Currency: "USD", Description: "FX losses"},
		{Number: 7000, Currency: "USD", Description: "FX gains"},
	}
}

func testTaxCodes() []domain.TaxCode {
	return []domain.TaxCode{
		{ID: "VAT77", Description: "VAT 7.7%", Rate: dec("0.077"), Inclusive: true, Account: 2200},
		{ID: "VAT8X", Description: "VAT 8% exclusive", Rate: dec("0.08"), Inclusive: false, Account: 2200},
	}
}

// entriesOf returns the serialized entries of group booked on account.
func entriesOf(j domain.SerializedJournal, group string, account int) []domain.LedgerEntry {
	var out []domain.LedgerEntry
	for _, e := range j {
		if e.GroupID == group && e.Account == account {
			out = append(out, e)
		}
	}
	return out
}
