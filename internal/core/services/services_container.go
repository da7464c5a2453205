package services

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...LedgerServiceOption) *portssvc.ServiceContainer {
	settings := &domain.Settings{
		BaseCurrency: cfg.Ledger.BaseCurrency,
		Precision:    cfg.Ledger.Precision,
	}
	if cfg.CacheTTL > 0 {
		options = append([]LedgerServiceOption{WithCacheTTL(cfg.CacheTTL)}, options...)
	}
	return &portssvc.ServiceContainer{
		Ledger: NewLedgerService(repos, settings, options...),
	}
}
