package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc exposes the raw entities as stored
type LedgerReaderSvc interface {
	// Journal returns the raw postings.
	Journal(ctx context.Context) ([]domain.Posting, error)

	// Accounts returns the account chart.
	Accounts(ctx context.Context) ([]domain.Account, error)

	// TaxCodes returns the tax code definitions.
	TaxCodes(ctx context.Context) ([]domain.TaxCode, error)

	// Prices returns the price history.
	Prices(ctx context.Context) ([]domain.Price, error)

	// FxAdjustments returns the FX revaluation rules.
	FxAdjustments(ctx context.Context) ([]domain.FxAdjustment, error)

	// ValidateAccounts checks that accounts referenced by tax codes and FX rules,
	// and tax codes referenced by the chart, are defined.
	ValidateAccounts(ctx context.Context) error
}

// LedgerCalculatorSvc answers questions about the completed journal
type LedgerCalculatorSvc interface {
	// SerializedJournal returns the completed long-form journal, computing it on first use.
	SerializedJournal(ctx context.Context) (domain.SerializedJournal, error)

	// ParseRange resolves an account range expression against the chart.
	ParseRange(ctx context.Context, spec any) (domain.AccountRange, error)

	// Balance returns the balance of spec as of date. A zero date includes everything.
	Balance(ctx context.Context, spec any, date time.Time) (domain.Balance, error)

	// PeriodBalance returns the movement of spec within period.
	PeriodBalance(ctx context.Context, spec any, period any) (domain.Balance, error)

	// History returns the entries of spec within period with running balances.
	History(ctx context.Context, spec any, period any) ([]domain.HistoryEntry, error)

	// Interest accrues interest on the running balance of spec within period.
	Interest(ctx context.Context, spec any, period any, rate decimal.Decimal, convention domain.DayCountConvention) ([]domain.InterestAccrual, error)
}

// LedgerMirrorSvc reconciles stored entities with a target state
type LedgerMirrorSvc interface {
	MirrorAccounts(ctx context.Context, target []domain.Account, delete bool) (domain.MirrorResult, error)
	MirrorTaxCodes(ctx context.Context, target []domain.TaxCode, delete bool) (domain.MirrorResult, error)
	MirrorPrices(ctx context.Context, target []domain.Price, delete bool) (domain.MirrorResult, error)
	MirrorFxAdjustments(ctx context.Context, target []domain.FxAdjustment, delete bool) (domain.MirrorResult, error)

	// MirrorJournal matches transactions by content rather than by group id.
	MirrorJournal(ctx context.Context, target []domain.Posting, delete bool) (domain.MirrorResult, error)
}

// LedgerCacheSvc controls the cached serialized journal
type LedgerCacheSvc interface {
	// Invalidate drops the cached serialized journal.
	Invalidate()

	// ExpireAfter makes the cached serialized journal expire after d; d <= 0 disables expiry.
	ExpireAfter(d time.Duration)
}

// LedgerSvcFacade combines all ledger-related service interfaces
// This is a facade for clients that need access to all operations
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerCalculatorSvc
	LedgerMirrorSvc
	LedgerCacheSvc
}
