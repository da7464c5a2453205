package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
)

// DateLayout is the textual form of dates throughout the engine.
const DateLayout = "2006-01-02"

// Period is a closed date window. A zero Start means "since the beginning",
// a zero End means "no upper bound".
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

var (
	yearPattern    = regexp.MustCompile(`^(\d{4})$`)
	monthPattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	quarterPattern = regexp.MustCompile(`^(\d{4})-[Qq]([1-4])$`)
)

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TruncateDate drops the time of day, keeping the calendar date of t.
func TruncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return Date(t.Year(), t.Month(), t.Day())
}

// ParsePeriod interprets v as a period. Accepted forms are nil (everything),
// a time.Time or "YYYY-MM-DD" (everything up to that date), "YYYY", "YYYY-MM",
// "YYYY-Qn" and Period itself.
func ParsePeriod(v any) (Period, error) {
	switch p := v.(type) {
	case nil:
		return Period{}, nil
	case Period:
		return p, nil
	case *Period:
		if p == nil {
			return Period{}, nil
		}
		return *p, nil
	case time.Time:
		return Period{End: TruncateDate(p)}, nil
	case int:
		return yearPeriod(p), nil
	case string:
		return parsePeriodString(p)
	}
	return Period{}, fmt.Errorf("%w: unsupported period type %T", apperrors.ErrValidation, v)
}

func parsePeriodString(s string) (Period, error) {
	if m := yearPattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		return yearPeriod(year), nil
	}
	if m := quarterPattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		q, _ := strconv.Atoi(m[2])
		start := Date(year, time.Month(3*(q-1)+1), 1)
		return Period{Start: start, End: start.AddDate(0, 3, -1)}, nil
	}
	if m := monthPattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return Period{}, fmt.Errorf("%w: invalid month in period '%s'", apperrors.ErrValidation, s)
		}
		start := Date(year, time.Month(month), 1)
		return Period{Start: start, End: start.AddDate(0, 1, -1)}, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: cannot parse period '%s'", apperrors.ErrValidation, s)
	}
	return Period{End: d}, nil
}

func yearPeriod(year int) Period {
	return Period{Start: Date(year, time.January, 1), End: Date(year, time.December, 31)}
}

// Contains reports whether d falls inside the period.
func (p Period) Contains(d time.Time) bool {
	if !p.Start.IsZero() && d.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && d.After(p.End) {
		return false
	}
	return true
}
