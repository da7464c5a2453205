package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/diagnostics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratio(num, den int64) decimal.Decimal {
	return decimal.NewFromInt(num).Div(decimal.NewFromInt(den))
}

func TestDayCountFactor(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		convention domain.DayCountConvention
		want       decimal.Decimal
	}{
		{name: "ACT/365", start: day(2024, time.January, 1), end: day(2024, time.July, 1), convention: domain.Act365, want: ratio(182, 365)},
		{name: "ACT/360", start: day(2024, time.January, 1), end: day(2024, time.July, 1), convention: domain.Act360, want: ratio(182, 360)},
		{name: "30/360", start: day(2024, time.January, 1), end: day(2024, time.July, 1), convention: domain.Thirty360, want: ratio(180, 360)},
		{name: "30/360 month ends", start: day(2024, time.January, 31), end: day(2024, time.March, 31), convention: domain.Thirty360, want: ratio(60, 360)},
		{name: "ACT/ACT leap year", start: day(2024, time.January, 1), end: day(2024, time.July, 1), convention: domain.ActAct, want: ratio(182, 366)},
		{name: "ACT/ACT common year", start: day(2023, time.January, 1), end: day(2023, time.July, 1), convention: domain.ActAct, want: ratio(181, 365)},
		{name: "same day", start: day(2024, time.May, 5), end: day(2024, time.May, 5), convention: domain.Act365, want: decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.DayCountFactor(tt.start, tt.end, tt.convention)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestDayCountFactor_Unsupported(t *testing.T) {
	_, err := services.DayCountFactor(day(2024, time.January, 1), day(2024, time.February, 1), "ACT/999")
	require.ErrorIs(t, err, apperrors.ErrUnsupportedDayCount)
	assert.Contains(t, err.Error(), "ACT/365")
}

func TestCalculateInterest(t *testing.T) {
	rate := dec("0.05")
	history := []domain.PrincipalBalance{
		{Date: day(2024, time.January, 1), Balance: dec("1000")},
		{Date: day(2024, time.July, 1), Balance: dec("2000")},
		{Date: day(2024, time.October, 1), Balance: dec("0")},
		{Date: day(2024, time.December, 31), Balance: dec("500")},
	}

	sink := &diagnostics.Collector{}
	got, err := services.CalculateInterest(history, rate, domain.Act360, sink)
	require.NoError(t, err)
	assert.Empty(t, sink.Records())

	// the zero balance interval accrues nothing
	require.Len(t, got, 2)
	assert.Equal(t, day(2024, time.July, 1), got[0].Date)
	assert.Equal(t, 182, got[0].Days)
	assert.True(t, dec("1000").Mul(rate).Mul(ratio(182, 360)).Equal(got[0].Amount))
	assert.Equal(t, "Interest from 2024-01-01 to 2024-07-01", got[0].Description)
	assert.Equal(t, 92, got[1].Days)
	assert.True(t, dec("2000").Mul(rate).Mul(ratio(92, 360)).Equal(got[1].Amount))
}

func TestCalculateInterest_UnsortedAndDuplicates(t *testing.T) {
	rate := dec("0.1")
	history := []domain.PrincipalBalance{
		{Date: day(2024, time.March, 1), Balance: dec("100")},
		{Date: day(2024, time.January, 1), Balance: dec("50")},
		{Date: day(2024, time.January, 1), Balance: dec("300")},
	}

	sink := &diagnostics.Collector{}
	got, err := services.CalculateInterest(history, rate, domain.Thirty360, sink)
	require.NoError(t, err)
	assert.Len(t, sink.Messages(diagnostics.Warning), 2)

	require.Len(t, got, 1)
	assert.True(t, dec("300").Mul(rate).Mul(ratio(60, 360)).Equal(got[0].Amount))
}

func TestCalculateInterest_Errors(t *testing.T) {
	t.Run("unsupported convention", func(t *testing.T) {
		_, err := services.CalculateInterest(nil, dec("0.01"), "BUS/252", nil)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedDayCount)
	})
	t.Run("missing date", func(t *testing.T) {
		_, err := services.CalculateInterest([]domain.PrincipalBalance{{Balance: dec("1")}}, dec("0.01"), domain.Act365, nil)
		assert.ErrorIs(t, err, apperrors.ErrSchemaViolation)
	})
	t.Run("single point", func(t *testing.T) {
		got, err := services.CalculateInterest([]domain.PrincipalBalance{{Date: day(2024, time.January, 1), Balance: dec("1")}}, dec("0.01"), domain.Act365, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
