package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/SscSPs/ledger_engine/internal/adapters/database/pgsql"
	"github.com/SscSPs/ledger_engine/internal/adapters/memory"
	"github.com/SscSPs/ledger_engine/internal/adapters/yamlfile"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

// options are the query flags; storage and ledger settings live in config.
type options struct {
	rangeSpec  string
	date       string
	period     string
	history    bool
	validate   bool
	rate       string
	dayCount   string
	mirrorFrom string
	prune      bool
}

func main() {
	flags := pflag.NewFlagSet("ledger_engine", pflag.ExitOnError)
	config.RegisterFlags(flags)
	var opts options
	flags.StringVar(&opts.rangeSpec, "range", "", "account range, e.g. 1000:1999-1500")
	flags.StringVar(&opts.date, "date", "", "balance as of this date (YYYY-MM-DD); empty means all")
	flags.StringVar(&opts.period, "period", "", "period for movements or history: YYYY, YYYY-MM, YYYY-Qn or YYYY-MM-DD")
	flags.BoolVar(&opts.history, "history", false, "print the entries of the range with running balances")
	flags.BoolVar(&opts.validate, "validate", false, "check account, tax code and fx rule references")
	flags.StringVar(&opts.rate, "interest-rate", "", "accrue interest on the range at this annual rate")
	flags.StringVar(&opts.dayCount, "day-count", string(domain.Act365), "day count convention for interest")
	flags.StringVar(&opts.mirrorFrom, "mirror-from", "", "reconcile storage with the YAML ledger in this directory")
	flags.BoolVar(&opts.prune, "prune", false, "with --mirror-from, delete rows absent from the source")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.LoadConfig(flags)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, opts, logger, os.Stdout); err != nil {
		logger.Error("Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger, out io.Writer) (err error) {
	repos, closeRepos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	container := services.NewServiceContainer(cfg, repos)
	ledger := container.Ledger

	ctx, done := middleware.StartOperation(ctx, logger, operationName(opts))
	defer func() { done(err) }()

	if opts.mirrorFrom != "" {
		result, err := mirrorFrom(ctx, ledger, opts.mirrorFrom, opts.prune)
		if err != nil {
			return err
		}
		return printJSON(out, result)
	}

	if opts.validate {
		if err := ledger.ValidateAccounts(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, "ok")
		return err
	}

	if opts.rangeSpec == "" {
		return fmt.Errorf("--range is required")
	}

	var period any
	if opts.period != "" {
		period = opts.period
	}

	switch {
	case opts.rate != "":
		rate, err := decimal.NewFromString(opts.rate)
		if err != nil {
			return fmt.Errorf("invalid --interest-rate: %w", err)
		}
		accruals, err := ledger.Interest(ctx, opts.rangeSpec, period, rate, domain.DayCountConvention(opts.dayCount))
		if err != nil {
			return err
		}
		return printJSON(out, accruals)
	case opts.history:
		history, err := ledger.History(ctx, opts.rangeSpec, period)
		if err != nil {
			return err
		}
		return printJSON(out, history)
	case period != nil:
		balance, err := ledger.PeriodBalance(ctx, opts.rangeSpec, period)
		if err != nil {
			return err
		}
		return printJSON(out, balance)
	default:
		date, err := domain.ParsePeriod(nilIfEmpty(opts.date))
		if err != nil {
			return err
		}
		balance, err := ledger.Balance(ctx, opts.rangeSpec, date.End)
		if err != nil {
			return err
		}
		return printJSON(out, balance)
	}
}

func operationName(opts options) string {
	switch {
	case opts.mirrorFrom != "":
		return "mirror"
	case opts.validate:
		return "validate"
	case opts.rate != "":
		return "interest"
	case opts.history:
		return "history"
	default:
		return "balance"
	}
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// openRepositories builds the storage backend selected in cfg.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			database.ClosePgxPool(pool, logger)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool, logger) }, nil
	case config.BackendMemory:
		seed, err := loadSeed(ctx, yamlfile.NewRepositoryProvider(cfg.DataDir, 0))
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return memory.NewRepositoryProvider(seed), func() {}, nil
	default:
		return yamlfile.NewRepositoryProvider(cfg.DataDir, yamlfile.DefaultReadTTL), func() {}, nil
	}
}

func loadSeed(ctx context.Context, repos portsrepo.RepositoryProvider) (memory.Seed, error) {
	var seed memory.Seed
	var err error
	if seed.Journal, err = repos.JournalRepo.List(ctx); err != nil {
		return seed, err
	}
	if seed.Accounts, err = repos.AccountRepo.List(ctx); err != nil {
		return seed, err
	}
	if seed.TaxCodes, err = repos.TaxCodeRepo.List(ctx); err != nil {
		return seed, err
	}
	if seed.Prices, err = repos.PriceRepo.List(ctx); err != nil {
		return seed, err
	}
	if seed.FxAdjustments, err = repos.FxAdjustmentRepo.List(ctx); err != nil {
		return seed, err
	}
	return seed, nil
}

// mirrorFrom reconciles every entity of ledger with the YAML ledger in dir.
func mirrorFrom(ctx context.Context, ledger portssvc.LedgerSvcFacade, dir string, prune bool) (map[string]domain.MirrorResult, error) {
	source, err := loadSeed(ctx, yamlfile.NewRepositoryProvider(dir, 0))
	if err != nil {
		return nil, err
	}
	results := map[string]domain.MirrorResult{}
	if results["accounts"], err = ledger.MirrorAccounts(ctx, source.Accounts, prune); err != nil {
		return results, err
	}
	if results["tax_codes"], err = ledger.MirrorTaxCodes(ctx, source.TaxCodes, prune); err != nil {
		return results, err
	}
	if results["prices"], err = ledger.MirrorPrices(ctx, source.Prices, prune); err != nil {
		return results, err
	}
	if results["fx_adjustments"], err = ledger.MirrorFxAdjustments(ctx, source.FxAdjustments, prune); err != nil {
		return results, err
	}
	if results["journal"], err = ledger.MirrorJournal(ctx, source.Journal, prune); err != nil {
		return results, err
	}
	return results, nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
