package yamlfile

import (
	"path/filepath"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// File names inside the data directory.
const (
	JournalFile      = "journal.yaml"
	AccountsFile     = "accounts.yaml"
	TaxCodesFile     = "tax_codes.yaml"
	PricesFile       = "prices.yaml"
	FxAdjustmentFile = "fx_adjustments.yaml"
)

// NewRepositoryProvider creates YAML-backed repositories rooted at dir.
func NewRepositoryProvider(dir string, ttl time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      NewStore(filepath.Join(dir, AccountsFile), domain.Account.Key, ttl),
		TaxCodeRepo:      NewStore(filepath.Join(dir, TaxCodesFile), domain.TaxCode.Key, ttl),
		PriceRepo:        NewStore(filepath.Join(dir, PricesFile), domain.Price.Key, ttl),
		FxAdjustmentRepo: NewStore(filepath.Join(dir, FxAdjustmentFile), domain.FxAdjustment.Key, ttl),
		JournalRepo:      NewJournalStore(filepath.Join(dir, JournalFile), ttl),
	}
}
