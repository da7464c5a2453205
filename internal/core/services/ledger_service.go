package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/diagnostics"
	"github.com/SscSPs/ledger_engine/internal/utils/cache"
	"github.com/shopspring/decimal"
)

// LedgerService derives the serialized journal from stored entities and
// answers balance, history and reconciliation requests. It owns the cache of
// the serialized journal; changes made to storage behind its back require
// Invalidate.
type LedgerService struct {
	BaseService
	repos      portsrepo.RepositoryProvider
	settings   *domain.Settings
	steps      []CompletionStep
	serialized *cache.Value[domain.SerializedJournal]
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*LedgerService)

// WithDiagnosticsSink routes per-transaction diagnostics to sink
func WithDiagnosticsSink(sink diagnostics.Sink) LedgerServiceOption {
	return func(s *LedgerService) {
		s.Sink = sink
	}
}

// WithCacheTTL makes the serialized journal expire after ttl
func WithCacheTTL(ttl time.Duration) LedgerServiceOption {
	return func(s *LedgerService) {
		s.serialized.ExpireAfter(ttl)
	}
}

// WithCompletionSteps replaces the completion stages
func WithCompletionSteps(steps ...CompletionStep) LedgerServiceOption {
	return func(s *LedgerService) {
		s.steps = steps
	}
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(repos portsrepo.RepositoryProvider, settings *domain.Settings, options ...LedgerServiceOption) *LedgerService {
	svc := &LedgerService{
		repos:      repos,
		settings:   settings,
		steps:      DefaultCompletionSteps(),
		serialized: cache.NewValue[domain.SerializedJournal](0),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure LedgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

func (s *LedgerService) Journal(ctx context.Context) ([]domain.Posting, error) {
	return s.repos.JournalRepo.List(ctx)
}

func (s *LedgerService) Accounts(ctx context.Context) ([]domain.Account, error) {
	return s.repos.AccountRepo.List(ctx)
}

func (s *LedgerService) TaxCodes(ctx context.Context) ([]domain.TaxCode, error) {
	return s.repos.TaxCodeRepo.List(ctx)
}

func (s *LedgerService) Prices(ctx context.Context) ([]domain.Price, error) {
	return s.repos.PriceRepo.List(ctx)
}

func (s *LedgerService) FxAdjustments(ctx context.Context) ([]domain.FxAdjustment, error) {
	return s.repos.FxAdjustmentRepo.List(ctx)
}

func (s *LedgerService) input(ctx context.Context) (CompletionInput, error) {
	var in CompletionInput
	var err error
	if in.Journal, err = s.Journal(ctx); err != nil {
		return in, fmt.Errorf("failed to list journal: %w", err)
	}
	if in.Accounts, err = s.Accounts(ctx); err != nil {
		return in, fmt.Errorf("failed to list accounts: %w", err)
	}
	if in.TaxCodes, err = s.TaxCodes(ctx); err != nil {
		return in, fmt.Errorf("failed to list tax codes: %w", err)
	}
	if in.Prices, err = s.Prices(ctx); err != nil {
		return in, fmt.Errorf("failed to list prices: %w", err)
	}
	if in.FxAdjustments, err = s.FxAdjustments(ctx); err != nil {
		return in, fmt.Errorf("failed to list fx adjustments: %w", err)
	}
	return in, nil
}

// ValidateAccounts checks cross references between chart, tax codes and FX rules.
func (s *LedgerService) ValidateAccounts(ctx context.Context) error {
	in, err := s.input(ctx)
	if err != nil {
		return err
	}
	chart, _ := chartIndex(in.Accounts)
	codes := map[string]struct{}{}
	for _, t := range in.TaxCodes {
		codes[t.ID] = struct{}{}
	}

	var missingCodes []string
	for _, a := range in.Accounts {
		if _, ok := codes[a.DefaultTaxCode]; a.DefaultTaxCode != "" && !ok {
			missingCodes = appendUnique(missingCodes, a.DefaultTaxCode)
		}
	}
	if len(missingCodes) > 0 {
		sort.Strings(missingCodes)
		return fmt.Errorf("%w: tax codes in account chart not defined: %s", apperrors.ErrReferentialIntegrity, strings.Join(missingCodes, ", "))
	}

	var missing []int
	check := func(a int) {
		if _, ok := chart[a]; a != domain.NoAccount && !ok && !containsInt(missing, a) {
			missing = append(missing, a)
		}
	}
	for _, t := range in.TaxCodes {
		if !t.Rate.IsZero() && t.Account == domain.NoAccount {
			return fmt.Errorf("%w: tax code '%s' has a rate but no account", apperrors.ErrValidation, t.ID)
		}
		check(t.Account)
		check(t.InverseAccount)
	}
	for _, f := range in.FxAdjustments {
		check(f.CreditAccount)
		check(f.DebitAccount)
	}
	if len(missing) > 0 {
		sort.Ints(missing)
		parts := make([]string, len(missing))
		for i, a := range missing {
			parts[i] = strconv.Itoa(a)
		}
		return fmt.Errorf("%w: accounts referenced by tax codes or fx adjustments not defined: %s", apperrors.ErrReferentialIntegrity, strings.Join(parts, ", "))
	}
	return nil
}

// SerializedJournal returns the cached completed journal, completing it when needed.
func (s *LedgerService) SerializedJournal(ctx context.Context) (domain.SerializedJournal, error) {
	return s.serialized.Get(func() (domain.SerializedJournal, error) {
		in, err := s.input(ctx)
		if err != nil {
			return nil, err
		}
		journal, err := RunCompletion(ctx, in, s.settings, s.DiagnosticsSink(ctx), s.steps)
		if err != nil {
			s.LogError(ctx, err, "Ledger completion failed")
			return nil, err
		}
		s.LogDebug(ctx, "Serialized journal computed",
			slog.Int("postings", len(in.Journal)),
			slog.Int("entries", len(journal)))
		return journal, nil
	})
}

// Invalidate drops the cached serialized journal.
func (s *LedgerService) Invalidate() {
	s.serialized.Invalidate()
}

// ExpireAfter sets the lifetime of the cached serialized journal.
func (s *LedgerService) ExpireAfter(d time.Duration) {
	s.serialized.ExpireAfter(d)
}

func (s *LedgerService) ParseRange(ctx context.Context, spec any) (domain.AccountRange, error) {
	accounts, err := s.Accounts(ctx)
	if err != nil {
		return domain.AccountRange{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	_, numbers := chartIndex(accounts)
	return ParseAccountRange(spec, numbers)
}

func (s *LedgerService) engine(ctx context.Context, spec any) (*BalanceEngine, domain.AccountRange, error) {
	journal, err := s.SerializedJournal(ctx)
	if err != nil {
		return nil, domain.AccountRange{}, err
	}
	accounts, err := s.Accounts(ctx)
	if err != nil {
		return nil, domain.AccountRange{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	_, numbers := chartIndex(accounts)
	rng, err := ParseAccountRange(spec, numbers)
	if err != nil {
		return nil, domain.AccountRange{}, err
	}
	return NewBalanceEngine(journal, accounts, s.settings), rng, nil
}

func (s *LedgerService) Balance(ctx context.Context, spec any, date time.Time) (domain.Balance, error) {
	e, rng, err := s.engine(ctx, spec)
	if err != nil {
		return domain.Balance{}, err
	}
	return e.Balance(rng, date)
}

func (s *LedgerService) PeriodBalance(ctx context.Context, spec any, period any) (domain.Balance, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return domain.Balance{}, err
	}
	e, rng, err := s.engine(ctx, spec)
	if err != nil {
		return domain.Balance{}, err
	}
	return e.PeriodBalance(rng, p)
}

func (s *LedgerService) History(ctx context.Context, spec any, period any) ([]domain.HistoryEntry, error) {
	p, err := domain.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	e, rng, err := s.engine(ctx, spec)
	if err != nil {
		return nil, err
	}
	return e.History(rng, p), nil
}

// Interest accrues interest on the end-of-day balance of spec within period.
func (s *LedgerService) Interest(ctx context.Context, spec any, period any, rate decimal.Decimal, convention domain.DayCountConvention) ([]domain.InterestAccrual, error) {
	history, err := s.History(ctx, spec, period)
	if err != nil {
		return nil, err
	}
	var points []domain.PrincipalBalance
	for _, h := range history {
		points = append(points, domain.PrincipalBalance{Date: h.Date, Balance: h.Balance, Description: h.Description})
	}
	return CalculateInterest(points, rate, convention, s.DiagnosticsSink(ctx))
}

func (s *LedgerService) afterMirror(ctx context.Context, entity string, res domain.MirrorResult, err error) (domain.MirrorResult, error) {
	if res.Added+res.Deleted+res.Updated > 0 {
		s.Invalidate()
	}
	if err != nil {
		s.LogError(ctx, err, "Mirror failed", slog.String("entity", entity))
		return res, err
	}
	s.LogInfo(ctx, "Mirror completed",
		slog.String("entity", entity),
		slog.Int("added", res.Added),
		slog.Int("deleted", res.Deleted),
		slog.Int("updated", res.Updated))
	return res, nil
}

func (s *LedgerService) MirrorAccounts(ctx context.Context, target []domain.Account, delete bool) (domain.MirrorResult, error) {
	res, err := Mirror(ctx, s.repos.AccountRepo, target, domain.Account.Key, delete)
	return s.afterMirror(ctx, "account", res, err)
}

func (s *LedgerService) MirrorTaxCodes(ctx context.Context, target []domain.TaxCode, delete bool) (domain.MirrorResult, error) {
	res, err := Mirror(ctx, s.repos.TaxCodeRepo, target, domain.TaxCode.Key, delete)
	return s.afterMirror(ctx, "tax_code", res, err)
}

func (s *LedgerService) MirrorPrices(ctx context.Context, target []domain.Price, delete bool) (domain.MirrorResult, error) {
	res, err := Mirror(ctx, s.repos.PriceRepo, target, domain.Price.Key, delete)
	return s.afterMirror(ctx, "price", res, err)
}

func (s *LedgerService) MirrorFxAdjustments(ctx context.Context, target []domain.FxAdjustment, delete bool) (domain.MirrorResult, error) {
	res, err := Mirror(ctx, s.repos.FxAdjustmentRepo, target, domain.FxAdjustment.Key, delete)
	return s.afterMirror(ctx, "fx_adjustment", res, err)
}

func (s *LedgerService) MirrorJournal(ctx context.Context, target []domain.Posting, delete bool) (domain.MirrorResult, error) {
	res, err := MirrorJournal(ctx, s.repos.JournalRepo, target, delete)
	return s.afterMirror(ctx, "journal", res, err)
}
