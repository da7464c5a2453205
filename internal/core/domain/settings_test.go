package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Validate(t *testing.T) {
	cent := decimal.RequireFromString("0.01")

	tests := []struct {
		name     string
		settings domain.Settings
		wantErr  bool
	}{
		{name: "valid", settings: domain.Settings{BaseCurrency: "USD", Precision: map[string]decimal.Decimal{"USD": cent}}},
		{name: "missing base currency", settings: domain.Settings{Precision: map[string]decimal.Decimal{"USD": cent}}, wantErr: true},
		{name: "lower case base currency", settings: domain.Settings{BaseCurrency: "usd", Precision: map[string]decimal.Decimal{"usd": cent}}, wantErr: true},
		{name: "no precision", settings: domain.Settings{BaseCurrency: "USD"}, wantErr: true},
		{name: "base currency without precision", settings: domain.Settings{BaseCurrency: "USD", Precision: map[string]decimal.Decimal{"EUR": cent}}, wantErr: true},
		{name: "non-positive precision", settings: domain.Settings{BaseCurrency: "USD", Precision: map[string]decimal.Decimal{"USD": decimal.Zero}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSettings_PrecisionOf(t *testing.T) {
	s := &domain.Settings{
		BaseCurrency: "CHF",
		Precision: map[string]decimal.Decimal{
			"CHF": decimal.RequireFromString("0.05"),
			"BTC": decimal.RequireFromString("0.00000001"),
		},
	}

	p, err := s.PrecisionOf("BTC")
	require.NoError(t, err)
	assert.Equal(t, "0.00000001", p.String())

	p, err = s.PrecisionOf(domain.BaseCurrencyTicker)
	require.NoError(t, err)
	assert.Equal(t, "0.05", p.String())

	_, err = s.PrecisionOf("EUR")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
