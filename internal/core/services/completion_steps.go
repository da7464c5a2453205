package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/diagnostics"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// TargetBalanceStep resolves legacy postings that state a desired resulting
// balance instead of an amount. Postings are handled in date order and each
// sees the amounts resolved before it.
type TargetBalanceStep struct{}

func (s *TargetBalanceStep) Name() string { return "target_balance" }

func (s *TargetBalanceStep) Execute(ctx context.Context, state *CompletionState) error {
	warned := false
	for i := range state.Postings {
		p := state.Postings[i]
		if !p.TargetBalance.Valid || p.HasAmount() {
			continue
		}
		if !warned {
			diagnostics.Warn(state.Sink, "", "Target balances are deprecated and will be removed. Specify an amount instead.")
			warned = true
		}
		account, ok := state.Chart[p.Account]
		if !ok {
			diagnostics.Warn(state.Sink, p.GroupID, fmt.Sprintf("Skip target balance at '%s': account %d not defined.", p.GroupID, p.Account))
			continue
		}
		precision, err := state.Settings.PrecisionOf(account.Currency)
		if err != nil {
			return err
		}
		partial := serialize(upToDate(state.Postings, p))
		current := accountBalance(partial, p.Account, p.Date, account.Currency).Get(account.Currency)
		amount := accounting.RoundToPrecision(p.TargetBalance.Decimal.Sub(current), precision)
		state.Postings[i].Amount = decimal.NewNullDecimal(amount)
		state.Postings[i].TargetBalance = decimal.NullDecimal{}
	}
	return nil
}

// upToDate returns the postings dated on or before p, postings being sorted.
func upToDate(postings []domain.Posting, p domain.Posting) []domain.Posting {
	out := make([]domain.Posting, 0, len(postings))
	for _, q := range postings {
		if q.Date.After(p.Date) {
			break
		}
		out = append(out, q)
	}
	return out
}

// TaxPostingStep books the tax of postings carrying a tax code.
//
// Exactly one leg must belong to an account with a default tax code. For an
// inclusive rate the tax is taken out of that leg; for an exclusive rate it
// is added on the other leg. The tax is booked against the tax code's
// account, and mirrored against its inverse account when one is set.
type TaxPostingStep struct{}

func (s *TaxPostingStep) Name() string { return "tax" }

func (s *TaxPostingStep) Execute(ctx context.Context, state *CompletionState) error {
	var generated []domain.Posting
	for _, p := range state.Postings {
		if p.TaxCode == "" || !p.HasAmount() {
			continue
		}
		code, ok := state.TaxCodes[p.TaxCode]
		if !ok {
			continue
		}
		accountTaxed := state.Chart[p.Account].DefaultTaxCode != "" && p.Account != domain.NoAccount
		counterTaxed := state.Chart[p.CounterAccount].DefaultTaxCode != "" && p.CounterAccount != domain.NoAccount

		var sign int64
		var bearing int
		switch {
		case counterTaxed && !accountTaxed:
			sign = 1
			bearing = p.Account
			if code.Inclusive {
				bearing = p.CounterAccount
			}
		case accountTaxed && !counterTaxed:
			sign = -1
			bearing = p.CounterAccount
			if code.Inclusive {
				bearing = p.Account
			}
		default:
			side := "Neither account nor counter account has"
			if accountTaxed {
				side = "Both account and counter account have"
			}
			diagnostics.Warn(state.Sink, p.GroupID, fmt.Sprintf("Skip tax code '%s' for '%s': %s a tax code (%v).",
				p.TaxCode, p.GroupID, side, apperrors.ErrAmbiguousTaxAssignment))
			continue
		}

		precision, err := state.Settings.PrecisionOf(p.Currency)
		if err != nil {
			return err
		}
		amount := accounting.TaxAmount(p.Amount.Decimal, code.Rate, code.Inclusive).Mul(decimal.NewFromInt(sign))
		amount = accounting.RoundToPrecision(amount, precision)
		if amount.IsZero() {
			continue
		}

		base := domain.Posting{
			GroupID:     p.GroupID + ":tax",
			Date:        p.Date,
			Account:     bearing,
			Currency:    p.Currency,
			TaxCode:     p.TaxCode,
			Description: "TAX: " + p.Description,
			Document:    p.Document,
		}
		if code.Account != domain.NoAccount {
			entry := base
			entry.CounterAccount = code.Account
			entry.Amount = decimal.NewNullDecimal(amount)
			generated = append(generated, entry)
		}
		if code.InverseAccount != domain.NoAccount {
			entry := base
			entry.CounterAccount = code.InverseAccount
			entry.Amount = decimal.NewNullDecimal(amount.Neg())
			generated = append(generated, entry)
		}
	}
	state.Postings = append(state.Postings, generated...)
	return nil
}

// BaseCurrencyStep fills missing base currency amounts from the price history.
// A transaction with a posting that cannot be converted is dropped.
type BaseCurrencyStep struct{}

func (s *BaseCurrencyStep) Name() string { return "base_currency" }

func (s *BaseCurrencyStep) Execute(ctx context.Context, state *CompletionState) error {
	baseCurrency := state.Settings.BaseCurrency
	precision, err := state.Settings.PrecisionOf(baseCurrency)
	if err != nil {
		return err
	}
	failed := map[string]bool{}
	for i, p := range state.Postings {
		if p.BaseCurrencyAmount.Valid || !p.HasAmount() {
			continue
		}
		if p.Currency == baseCurrency {
			state.Postings[i].BaseCurrencyAmount = p.Amount
			continue
		}
		price, err := state.Prices.Lookup(p.Currency, baseCurrency, p.Date)
		if err != nil {
			if !errors.Is(err, apperrors.ErrUnresolvedFxRate) {
				return err
			}
			if !failed[p.GroupID] {
				diagnostics.Fail(state.Sink, p.GroupID, fmt.Sprintf("Discard transaction '%s': %v.", p.GroupID, err))
			}
			failed[p.GroupID] = true
			continue
		}
		state.Postings[i].BaseCurrencyAmount = decimal.NewNullDecimal(accounting.Convert(p.Amount.Decimal, price, precision))
	}
	if len(failed) == 0 {
		return nil
	}
	kept := state.Postings[:0]
	for _, p := range state.Postings {
		if !failed[p.GroupID] {
			kept = append(kept, p)
		}
	}
	state.Postings = kept
	return nil
}

// FxRevaluationStep books, for each rule in turn, the difference between the
// spot value of every foreign-currency account in the rule's range and its
// booked base currency balance. Each rule sees the adjustments of earlier rules.
type FxRevaluationStep struct{}

func (s *FxRevaluationStep) Name() string { return "fx_revaluation" }

func (s *FxRevaluationStep) Execute(ctx context.Context, state *CompletionState) error {
	baseCurrency := state.Settings.BaseCurrency
	precision, err := state.Settings.PrecisionOf(baseCurrency)
	if err != nil {
		return err
	}
	for _, rule := range state.Input.FxAdjustments {
		journal := serialize(state.Postings)
		rng, err := ParseAccountRange(rule.Range, state.ChartOrder)
		if err != nil {
			return fmt.Errorf("fx adjustment on %s: %w", rule.Date.Format(domain.DateLayout), err)
		}
		date := rule.Date.Format(domain.DateLayout)
		var adjustments []domain.Posting
		for _, number := range rng.Accounts() {
			currency := state.Chart[number].Currency
			if currency == baseCurrency {
				continue
			}
			rate, err := state.Prices.Lookup(currency, baseCurrency, rule.Date)
			if err != nil {
				if !errors.Is(err, apperrors.ErrUnresolvedFxRate) {
					return err
				}
				diagnostics.Warn(state.Sink, "", fmt.Sprintf("Skip fx adjustment of account %d on %s: %v.", number, date, err))
				continue
			}
			balance := accountBalance(journal, number, rule.Date, currency)
			target := balance.Get(currency).Mul(rate)
			delta := accounting.RoundToPrecision(target.Sub(balance.BaseCurrency), precision)

			id := fmt.Sprintf("fx_adjustment:%s:%d", date, number)
			offset := rule.DebitAccount
			if delta.IsPositive() {
				offset = rule.CreditAccount
			}
			adjustments = append(adjustments,
				domain.Posting{
					GroupID:            id,
					Date:               rule.Date,
					Account:            number,
					Currency:           currency,
					Amount:             decimal.NewNullDecimal(decimal.Zero),
					BaseCurrencyAmount: decimal.NewNullDecimal(delta),
					Description:        rule.Description,
				},
				domain.Posting{
					GroupID:            id,
					Date:               rule.Date,
					Account:            offset,
					Currency:           baseCurrency,
					Amount:             decimal.NewNullDecimal(delta.Neg()),
					BaseCurrencyAmount: decimal.NewNullDecimal(delta.Neg()),
					Description:        rule.Description,
				},
			)
		}
		state.Postings = append(state.Postings, adjustments...)
	}
	return nil
}
