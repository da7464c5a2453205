package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountRepositoryFacade stores the account chart, keyed by account number
type AccountRepositoryFacade interface {
	TabularEntity[domain.Account]
}

// TaxCodeRepositoryFacade stores tax codes, keyed by id
type TaxCodeRepositoryFacade interface {
	TabularEntity[domain.TaxCode]
}

// PriceRepositoryFacade stores price observations, keyed by (ticker, currency, date)
type PriceRepositoryFacade interface {
	TabularEntity[domain.Price]
}

// FxAdjustmentRepositoryFacade stores FX revaluation rules, keyed by (date, range)
type FxAdjustmentRepositoryFacade interface {
	TabularEntity[domain.FxAdjustment]
}

// JournalWriter defines journal-specific write operations
type JournalWriter interface {
	// AddTransaction stores the rows of one transaction under a new,
	// storage-assigned group id and returns that id. Incoming group ids are ignored.
	AddTransaction(ctx context.Context, rows []domain.Posting) (string, error)
}

// JournalRepositoryFacade stores raw postings. Keys are group ids: Modify
// replaces whole transactions and Delete removes every row of a group.
type JournalRepositoryFacade interface {
	TabularEntity[domain.Posting]
	JournalWriter
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	TaxCodeRepo      TaxCodeRepositoryFacade
	PriceRepo        PriceRepositoryFacade
	FxAdjustmentRepo FxAdjustmentRepositoryFacade
	JournalRepo      JournalRepositoryFacade
}
