package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/diagnostics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func complete(t *testing.T, in services.CompletionInput) (domain.SerializedJournal, *diagnostics.Collector) {
	t.Helper()
	if in.Accounts == nil {
		in.Accounts = testChart()
	}
	if in.TaxCodes == nil {
		in.TaxCodes = testTaxCodes()
	}
	sink := &diagnostics.Collector{}
	journal, err := services.CompleteJournal(context.Background(), in, testSettings(), sink)
	require.NoError(t, err)
	return journal, sink
}

func TestCompleteJournal_SerializesBothLegs(t *testing.T) {
	journal, sink := complete(t, services.CompletionInput{
		Journal: []domain.Posting{
			{GroupID: "2", Date: day(2024, time.January, 5), Account: 1000, CounterAccount: 3000, Currency: "USD", Amount: amt("50")},
			{GroupID: "1", Date: day(2024, time.January, 1), Account: 1000, CounterAccount: 3000, Currency: "USD", Amount: amt("100"), Description: "Opening"},
		},
	})
	assert.Empty(t, sink.Records())
	require.Len(t, journal, 4)

	assert.Equal(t, "1", journal[0].GroupID)
	assert.Equal(t, 1000, journal[0].Account)
	assert.Equal(t, 3000, journal[0].CounterAccount)
	assert.Equal(t, "100", journal[0].Amount.String())
	assert.Equal(t, "100", journal[0].BaseCurrencyAmount.String())
	assert.Equal(t, "Opening", journal[0].Description)

	assert.Equal(t, 3000, journal[1].Account)
	assert.Equal(t, 1000, journal[1].CounterAccount)
	assert.Equal(t, "-100", journal[1].Amount.String())
	assert.Equal(t, "2", journal[2].GroupID)
}

func TestCompleteJournal_InclusiveTax(t *testing.T) {
	journal, _ := complete(t, services.CompletionInput{
		Journal: []domain.Posting{
			{GroupID: "1", Date: day(2024, time.March, 1), Account: 1000, CounterAccount: 4000, Currency: "USD", Amount: amt("-1000"), TaxCode: "VAT77", Description: "Sale"},
		},
	})

	taxed := entriesOf(journal, "1:tax", 4000)
	require.Len(t, taxed, 1)
	assert.Equal(t, "-71.49", taxed[0].Amount.String())
	assert.Equal(t, "TAX: Sale", taxed[0].Description)
	assert.Equal(t, 2200, taxed[0].CounterAccount)

	payable := entriesOf(journal, "1:tax", 2200)
	require.Len(t, payable, 1)
	assert.Equal(t, "71.49", payable[0].Amount.String())
}

func TestCompleteJournal_ExclusiveTax(t *testing.T) {
	journal, _ := complete(t, services.CompletionInput{
		Journal: []domain.Posting{
			{GroupID: "1", Date: day(2024, time.March, 1), Account: 4000, CounterAccount: 1000, Currency: "USD", Amount: amt("100"), TaxCode: "VAT8X"},
		},
	})

	// the taxed account is on the account side, so the tax lands on the counter side
	bank := entriesOf(journal, "1:tax", 1000)
	require.Len(t, bank, 1)
	assert.Equal(t, "-8", bank[0].Amount.String())
	assert.Equal(t, "8", entriesOf(journal, "1:tax", 2200)[0].Amount.String())
}

func TestCompleteJournal_InverseTaxAccount(t *testing.T) {
	codes := []domain.TaxCode{
		{ID: "VAT77", Rate: dec("0.1"), Account: 2200, InverseAccount: 6000},
	}
	journal, _ := complete(t, services.CompletionInput{
		TaxCodes: codes,
		Journal: []domain.Posting{
			{GroupID: "1", Date: day(2024, time.March, 1), Account: 1000, CounterAccount: 4000, Currency: "USD", Amount: amt("200"), TaxCode: "VAT77"},
		},
	})

	assert.Equal(t, "-20", entriesOf(journal, "1:tax", 2200)[0].Amount.String())
	assert.Equal(t, "20", entriesOf(journal, "1:tax", 6000)[0].Amount.String())
}

func TestCompleteJournal_AmbiguousTaxSkipped(t *testing.T) {
	journal, sink := complete(t, services.CompletionInput{
		Journal: []domain.Posting{
			{GroupID: "1", Date: day(2024, time.March, 1), Account: 1000, CounterAccount: 3000, Currency: "USD", Amount: amt("100"), TaxCode: "VAT77"},
		},
	})

	assert.Empty(t, entriesOf(journal, "1:tax", 2200))
	require.Len(t, sink.Messages(diagnostics.Warning), 1)
	assert.Contains(t, sink.Messages(diagnostics.Warning)[0], "Neither account nor counter account has a tax code")
}

func TestCompleteJournal_BaseCurrencyBackfill(t *testing.T) {
	journal, sink := complete(t, services.CompletionInput{
		Prices: []domain.Price{
			{Ticker: "EUR", Currency: "USD", Date: day(2024, time.January, 1), Price: dec("1.05")},
			{Ticker: "EUR", Currency: "USD", Date: day(2024, time.February, 1), Price: dec("1.2")},
		},
		Journal: []domain.Posting{
			{GroupID: "1", Date: day(2024, time.January, 15), Account: 1100, CounterAccount: 3000, Currency: "EUR", Amount: amt("1000")},
			{GroupID: "2", Date: day(2024, time.January, 20), Account: 1100, CounterAccount: 3000, Currency: "EUR", Amount: amt("10"), BaseCurrencyAmount: amt("11")},
		},
	})
	assert.Empty(t, sink.Records())

	first := entriesOf(journal, "1", 1100)
	require.Len(t, first, 1)
	assert.Equal(t, "1050", first[0].BaseCurrencyAmount.String())

	second := entriesOf(journal, "2", 3000)
	require.Len(t, second, 1)
	assert.Equal(t, "-11", second[0].BaseCurrencyAmount.String())
}

func TestCompleteJournal_UnresolvedRateDropsTransaction(t *testing.T) {
	journal, sink := complete(t, services.CompletionInput{
		Journal: []domain.Posting{
			{GroupID: "1", Date: day(2024, time.January, 1), Account: 1000, CounterAccount: 3000, Currency: "USD", Amount: amt("5")},
			{GroupID: "2", Date: day(2024, time.January, 2), Account: 1100, CounterAccount: 3000, Currency: "EUR", Amount: amt("10")},
		},
	})

	for _, e := range journal {
		assert.NotEqual(t, "2", e.GroupID)
	}
	assert.Len(t, entriesOf(journal, "1", 1000), 1)
	errs := sink.Messages(diagnostics.Error)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Discard transaction '2'")
}

func TestCompleteJournal_TargetBalance(t *testing.T) {
	journal, sink := complete(t, services.CompletionInput{
		Journal: []domain.Posting{
			{GroupID: "1", Date: day(2024, time.January, 1), Account: 1000, CounterAccount: 3000, Currency: "USD", Amount: amt("100")},
			{GroupID: "2", Date: day(2024, time.January, 2), Account: 1000, CounterAccount: 3000, Currency: "USD", TargetBalance: amt("250")},
		},
	})

	resolved := entriesOf(journal, "2", 1000)
	require.Len(t, resolved, 1)
	assert.Equal(t, "150", resolved[0].Amount.String())
	assert.Len(t, sink.Messages(diagnostics.Warning), 1)

	b, err := services.NewBalanceEngine(journal, testChart(), testSettings()).
		Balance(domain.AccountRange{Add: []int{1000}}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "250", b.Get("USD").String())
}

func TestCompleteJournal_FxRevaluation(t *testing.T) {
	yearEnd := day(2024, time.December, 31)
	journal, sink := complete(t, services.CompletionInput{
		Prices: []domain.Price{
			{Ticker: "EUR", Currency: "USD", Date: day(2024, time.January, 1), Price: dec("1.05")},
			{Ticker: "EUR", Currency: "USD", Date: yearEnd, Price: dec("1.10")},
		},
		FxAdjustments: []domain.FxAdjustment{
			{Date: yearEnd, Range: "1000:1100", CreditAccount: 7000, DebitAccount: 6000, Description: "FX revaluation"},
		},
		Journal: []domain.Posting{
			{GroupID: "1", Date: day(2024, time.January, 15), Account: 1100, CounterAccount: 3000, Currency: "EUR", Amount: amt("1000")},
		},
	})
	assert.Empty(t, sink.Records())

	engine := services.NewBalanceEngine(journal, testChart(), testSettings())
	b, err := engine.Balance(domain.AccountRange{Add: []int{1100}}, yearEnd)
	require.NoError(t, err)
	assert.Equal(t, "1000", b.Get("EUR").String())
	assert.Equal(t, "1100", b.BaseCurrency.String())

	gains, err := engine.Balance(domain.AccountRange{Add: []int{7000}}, yearEnd)
	require.NoError(t, err)
	assert.Equal(t, "-50", gains.BaseCurrency.String())

	adj := entriesOf(journal, "fx_adjustment:2024-12-31:1100", 1100)
	require.Len(t, adj, 1)
	assert.True(t, adj[0].Amount.IsZero())
	assert.Equal(t, "FX revaluation", adj[0].Description)
}

func TestCompleteJournal_FxRulesSeeEarlierAdjustments(t *testing.T) {
	q1, q2 := day(2024, time.March, 31), day(2024, time.June, 30)
	journal, _ := complete(t, services.CompletionInput{
		Prices: []domain.Price{
			{Ticker: "EUR", Currency: "USD", Date: day(2024, time.January, 1), Price: dec("1")},
			{Ticker: "EUR", Currency: "USD", Date: q1, Price: dec("1.2")},
			{Ticker: "EUR", Currency: "USD", Date: q2, Price: dec("1.1")},
		},
		FxAdjustments: []domain.FxAdjustment{
			{Date: q1, Range: "1100", CreditAccount: 7000, DebitAccount: 6000},
			{Date: q2, Range: "1100", CreditAccount: 7000, DebitAccount: 6000},
		},
		Journal: []domain.Posting{
			{GroupID: "1", Date: day(2024, time.January, 2), Account: 1100, CounterAccount: 3000, Currency: "EUR", Amount: amt("100")},
		},
	})

	// +20 at Q1, then -10 relative to the revalued 120 at Q2
	q2Gain := entriesOf(journal, "fx_adjustment:2024-06-30:1100", 1100)
	require.Len(t, q2Gain, 1)
	assert.Equal(t, "-10", q2Gain[0].BaseCurrencyAmount.String())
	assert.Len(t, entriesOf(journal, "fx_adjustment:2024-06-30:1100", 6000), 1)
}

type failingStep struct{}

func (failingStep) Name() string { return "failing" }

func (failingStep) Execute(ctx context.Context, state *services.CompletionState) error {
	return errors.New("boom")
}

func TestRunCompletion_StepError(t *testing.T) {
	_, err := services.RunCompletion(context.Background(), services.CompletionInput{}, testSettings(), nil,
		[]services.CompletionStep{&services.StandardizeStep{}, failingStep{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger completion step failing")
}

func TestRunCompletion_RequiresSettings(t *testing.T) {
	_, err := services.RunCompletion(context.Background(), services.CompletionInput{}, nil, nil, services.DefaultCompletionSteps())
	assert.Error(t, err)
}
