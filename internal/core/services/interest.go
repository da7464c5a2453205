package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/diagnostics"
	"github.com/shopspring/decimal"
)

// DayCountFactor returns the fraction of a year between start and end under convention.
func DayCountFactor(start, end time.Time, convention domain.DayCountConvention) (decimal.Decimal, error) {
	days := decimal.NewFromInt(int64(daysBetween(start, end)))
	switch convention {
	case domain.Act365:
		return days.Div(decimal.NewFromInt(365)), nil
	case domain.Act360:
		return days.Div(decimal.NewFromInt(360)), nil
	case domain.Thirty360:
		return decimal.NewFromInt(int64(days30360(start, end))).Div(decimal.NewFromInt(360)), nil
	case domain.ActAct:
		return days.Div(decimal.NewFromInt(int64(daysInYear(start.Year())))), nil
	}
	return decimal.Zero, unsupportedConvention(convention)
}

func unsupportedConvention(c domain.DayCountConvention) error {
	valid := make([]string, len(domain.DayCountConventions))
	for i, v := range domain.DayCountConventions {
		valid[i] = string(v)
	}
	return fmt.Errorf("%w: '%s', expected one of %s", apperrors.ErrUnsupportedDayCount, c, strings.Join(valid, ", "))
}

func daysBetween(start, end time.Time) int {
	return int(domain.TruncateDate(end).Sub(domain.TruncateDate(start)).Hours() / 24)
}

// days30360 counts days under the US 30/360 rule.
func days30360(start, end time.Time) int {
	d1, d2 := start.Day(), end.Day()
	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 && d1 >= 30 {
		d2 = 30
	}
	return 360*(end.Year()-start.Year()) + 30*(int(end.Month())-int(start.Month())) + (d2 - d1)
}

func daysInYear(year int) int {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}

// CalculateInterest accrues interest on each interval between consecutive
// points of history, on the balance at the start of the interval. Unsorted
// input is sorted and duplicate dates keep their last entry, both with a
// warning on sink. Zero-length and zero-balance intervals produce nothing.
func CalculateInterest(history []domain.PrincipalBalance, rate decimal.Decimal, convention domain.DayCountConvention, sink diagnostics.Sink) ([]domain.InterestAccrual, error) {
	if sink == nil {
		sink = diagnostics.Discard
	}
	if _, err := DayCountFactor(time.Time{}, time.Time{}, convention); err != nil {
		return nil, err
	}
	for i, h := range history {
		if h.Date.IsZero() {
			return nil, fmt.Errorf("%w: principal history row %d has no date", apperrors.ErrSchemaViolation, i)
		}
	}
	if len(history) < 2 {
		return []domain.InterestAccrual{}, nil
	}

	points := append([]domain.PrincipalBalance(nil), history...)
	if !sort.SliceIsSorted(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) }) {
		diagnostics.Warn(sink, "", "Principal history is not sorted by date; sorting it.")
		sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	}

	deduped := points[:0:0]
	duplicates := false
	for _, p := range points {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(p.Date) {
			deduped[n-1] = p
			duplicates = true
			continue
		}
		deduped = append(deduped, p)
	}
	if duplicates {
		diagnostics.Warn(sink, "", "Principal history contains duplicate dates; keeping the last entry per date.")
	}

	out := []domain.InterestAccrual{}
	for i := 1; i < len(deduped); i++ {
		start, end := deduped[i-1], deduped[i]
		days := daysBetween(start.Date, end.Date)
		if days <= 0 || start.Balance.IsZero() {
			continue
		}
		factor, err := DayCountFactor(start.Date, end.Date, convention)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.InterestAccrual{
			Date:   end.Date,
			Amount: start.Balance.Mul(rate).Mul(factor),
			Days:   days,
			Description: fmt.Sprintf("Interest from %s to %s",
				start.Date.Format(domain.DateLayout), end.Date.Format(domain.DateLayout)),
		})
	}
	return out, nil
}
