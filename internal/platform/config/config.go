package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendYAML     = "yaml"
	BackendPostgres = "postgres"
)

// LedgerConfig holds the accounting settings of the ledger.
type LedgerConfig struct {
	BaseCurrency string
	Precision    map[string]decimal.Decimal
}

// Config holds application configuration.
type Config struct {
	DatabaseURL    string `validate:"required_if=StorageBackend postgres"`
	StorageBackend string `validate:"oneof=memory yaml postgres"`
	DataDir        string `validate:"required_unless=StorageBackend postgres"`
	MigrationsPath string
	CacheTTL       time.Duration `validate:"gte=0"`
	LogLevel       slog.Level
	Ledger         LedgerConfig
}

// Settings returns the validated ledger settings.
func (c *Config) Settings() (*domain.Settings, error) {
	s := &domain.Settings{BaseCurrency: c.Ledger.BaseCurrency, Precision: c.Ledger.Precision}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// RegisterFlags declares the command line overrides understood by LoadConfig.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("storage", "", "storage backend: memory, yaml or postgres")
	flags.String("data-dir", "", "directory holding the YAML ledger files")
	flags.String("database-url", "", "PostgreSQL connection URL")
	flags.String("base-currency", "", "reporting currency")
	flags.String("config", "", "optional YAML config file")
	flags.String("log-level", "", "debug, info, warn or error")
}

// LoadConfig loads configuration from defaults, an optional config file, a
// .env file, environment variables and flags, in increasing precedence.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("STORAGE_BACKEND", BackendYAML)
	v.SetDefault("DATA_DIR", "ledger")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("CACHE_TTL", "0s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BASE_CURRENCY", "USD")
	v.SetDefault("PRECISION", "USD=0.01")
	v.AutomaticEnv()

	if flags != nil {
		for key, flag := range map[string]string{
			"STORAGE_BACKEND":    "storage",
			"DATA_DIR":           "data-dir",
			"PGSQL_URL":          "database-url",
			"BASE_CURRENCY":      "base-currency",
			"LOG_LEVEL":          "log-level",
			"LEDGER_CONFIG_FILE": "config",
		} {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
				}
			}
		}
	}

	if file := v.GetString("LEDGER_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		DatabaseURL:    v.GetString("PGSQL_URL"),
		StorageBackend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
		DataDir:        v.GetString("DATA_DIR"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		Ledger: LedgerConfig{
			BaseCurrency: strings.ToUpper(v.GetString("BASE_CURRENCY")),
		},
	}

	ttl, err := cast.ToDurationE(v.Get("CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	precision, err := ParsePrecision(v.Get("PRECISION"))
	if err != nil {
		return nil, err
	}
	cfg.Ledger.Precision = precision

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.Settings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParsePrecision reads a precision map either from a mapping (config file)
// or from a "TICKER=increment,..." list (environment).
func ParsePrecision(raw any) (map[string]decimal.Decimal, error) {
	entries := map[string]string{}
	if s, ok := raw.(string); ok {
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			ticker, value, found := strings.Cut(part, "=")
			if !found {
				return nil, fmt.Errorf("invalid PRECISION entry '%s', expected TICKER=increment", part)
			}
			entries[strings.TrimSpace(ticker)] = strings.TrimSpace(value)
		}
	} else {
		m, err := cast.ToStringMapStringE(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PRECISION: %w", err)
		}
		entries = m
	}

	out := make(map[string]decimal.Decimal, len(entries))
	for ticker, value := range entries {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid precision for %s: %w", ticker, err)
		}
		// Config file keys arrive lower-cased
		if !strings.EqualFold(ticker, domain.BaseCurrencyTicker) {
			ticker = strings.ToUpper(ticker)
		} else {
			ticker = domain.BaseCurrencyTicker
		}
		out[ticker] = d
	}
	return out, nil
}
