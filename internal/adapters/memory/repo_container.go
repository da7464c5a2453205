package memory

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// Seed is the initial content of an in-memory ledger.
type Seed struct {
	Journal       []domain.Posting
	Accounts      []domain.Account
	TaxCodes      []domain.TaxCode
	Prices        []domain.Price
	FxAdjustments []domain.FxAdjustment
}

// NewRepositoryProvider creates in-memory repositories holding seed.
func NewRepositoryProvider(seed Seed) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      NewEntity(domain.Account.Key, seed.Accounts...),
		TaxCodeRepo:      NewEntity(domain.TaxCode.Key, seed.TaxCodes...),
		PriceRepo:        NewEntity(domain.Price.Key, seed.Prices...),
		FxAdjustmentRepo: NewEntity(domain.FxAdjustment.Key, seed.FxAdjustments...),
		JournalRepo:      NewJournalStore(seed.Journal...),
	}
}
