package domain

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// BaseCurrencyTicker is the reserved ticker that resolves to the base currency.
const BaseCurrencyTicker = "base_currency"

// Settings is the typed ledger configuration, built once and shared by pointer.
type Settings struct {
	BaseCurrency string                     `json:"baseCurrency" yaml:"base_currency" validate:"required,len=3,uppercase"`
	Precision    map[string]decimal.Decimal `json:"precision" yaml:"precision" validate:"required,min=1"` // Smallest increment per ticker
}

var settingsValidator = validator.New()

// Validate checks the settings and that every precision is positive and the
// base currency has one.
func (s *Settings) Validate() error {
	if err := settingsValidator.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	for ticker, p := range s.Precision {
		if !p.IsPositive() {
			return fmt.Errorf("%w: precision for '%s' must be positive", apperrors.ErrValidation, ticker)
		}
	}
	if _, ok := s.Precision[s.BaseCurrency]; !ok {
		return fmt.Errorf("%w: no precision defined for base currency '%s'", apperrors.ErrValidation, s.BaseCurrency)
	}
	return nil
}

// PrecisionOf returns the rounding increment of ticker.
func (s *Settings) PrecisionOf(ticker string) (decimal.Decimal, error) {
	if ticker == BaseCurrencyTicker {
		ticker = s.BaseCurrency
	}
	p, ok := s.Precision[ticker]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no precision defined for '%s'", apperrors.ErrValidation, ticker)
	}
	return p, nil
}
