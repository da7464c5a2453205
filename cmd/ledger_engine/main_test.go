package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const accountsYAML = `- number: 1000
  currency: USD
  description: Bank
- number: 3000
  currency: USD
  description: Equity
`

const journalYAML = `- group_id: "1"
  date: 2024-01-01
  account: 1000
  counter_account: 3000
  currency: USD
  amount: "100"
  description: Opening
`

func writeLedger(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		StorageBackend: config.BackendMemory,
		DataDir:        dir,
		Ledger: config.LedgerConfig{
			BaseCurrency: "USD",
			Precision:    map[string]decimal.Decimal{"USD": decimal.RequireFromString("0.01")},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	dir := writeLedger(t, map[string]string{"accounts.yaml": accountsYAML, "journal.yaml": journalYAML})
	ctx := context.Background()

	t.Run("validate", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(ctx, testConfig(dir), options{validate: true}, discardLogger(), &out))
		assert.Equal(t, "ok\n", out.String())
	})

	t.Run("balance", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(ctx, testConfig(dir), options{rangeSpec: "1000"}, discardLogger(), &out))

		var got struct {
			BaseCurrency string            `json:"baseCurrency"`
			Amounts      map[string]string `json:"amounts"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "100", got.BaseCurrency)
		assert.Equal(t, map[string]string{"USD": "100"}, got.Amounts)
	})

	t.Run("range is required", func(t *testing.T) {
		err := run(ctx, testConfig(dir), options{}, discardLogger(), io.Discard)
		assert.EqualError(t, err, "--range is required")
	})

	t.Run("bad period", func(t *testing.T) {
		err := run(ctx, testConfig(dir), options{rangeSpec: "1000", period: "2024-13"}, discardLogger(), io.Discard)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("bad interest rate", func(t *testing.T) {
		err := run(ctx, testConfig(dir), options{rangeSpec: "1000", rate: "five"}, discardLogger(), io.Discard)
		assert.ErrorContains(t, err, "invalid --interest-rate")
	})
}

func TestRun_MirrorFrom(t *testing.T) {
	dir := writeLedger(t, map[string]string{"accounts.yaml": accountsYAML})
	source := writeLedger(t, map[string]string{
		"accounts.yaml": accountsYAML + "- number: 4000\n  currency: USD\n  description: Revenue\n",
		"journal.yaml":  journalYAML,
	})

	var out bytes.Buffer
	opts := options{mirrorFrom: source, prune: true}
	require.NoError(t, run(context.Background(), testConfig(dir), opts, discardLogger(), &out))

	var got map[string]map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 1, got["accounts"]["added"])
	assert.Equal(t, 3, got["accounts"]["target"])
	assert.Equal(t, 1, got["journal"]["added"])
	assert.Equal(t, 0, got["prices"]["target"])
}

func TestOperationName(t *testing.T) {
	tests := []struct {
		opts options
		want string
	}{
		{options{mirrorFrom: "x"}, "mirror"},
		{options{validate: true}, "validate"},
		{options{rate: "0.05", history: true}, "interest"},
		{options{history: true}, "history"},
		{options{}, "balance"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, operationName(tt.opts))
	}
}
