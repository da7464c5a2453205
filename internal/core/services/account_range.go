package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ParseAccountRange resolves spec against the account numbers in chart.
//
// Accepted forms: an account number (negative means subtract), an integral
// float or decimal, a slice of numbers, a domain.AccountRange, or a string of
// "+"/"-" separated terms where each term is an account or an inclusive
// "first:last" span over chart accounts.
func ParseAccountRange(spec any, chart []int) (domain.AccountRange, error) {
	known := make(map[int]struct{}, len(chart))
	for _, a := range chart {
		known[a] = struct{}{}
	}
	p := rangeParser{chart: sortedCopy(chart), known: known}
	if err := p.parse(spec); err != nil {
		return domain.AccountRange{}, err
	}
	if len(p.add) == 0 && len(p.subtract) == 0 {
		return domain.AccountRange{}, fmt.Errorf("%w: no account matching %v", apperrors.ErrInvalidRange, spec)
	}
	return domain.AccountRange{Add: p.add, Subtract: p.subtract}, nil
}

type rangeParser struct {
	chart    []int
	known    map[int]struct{}
	add      []int
	subtract []int
}

func (p *rangeParser) parse(spec any) error {
	switch v := spec.(type) {
	case int:
		return p.single(v)
	case int32:
		return p.single(int(v))
	case int64:
		return p.single(int(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v is not an account", apperrors.ErrInvalidRange, v)
		}
		return p.number(decimal.NewFromFloat(v))
	case decimal.Decimal:
		return p.number(v)
	case []int:
		for _, a := range v {
			if err := p.single(a); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for _, a := range v {
			if err := p.parse(a); err != nil {
				return err
			}
		}
		return nil
	case domain.AccountRange:
		for _, a := range v.Add {
			if err := p.single(a); err != nil {
				return err
			}
		}
		for _, a := range v.Subtract {
			if err := p.single(-a); err != nil {
				return err
			}
		}
		return nil
	case *domain.AccountRange:
		if v == nil {
			break
		}
		return p.parse(*v)
	case string:
		return p.expression(v)
	}
	return fmt.Errorf("%w: unsupported account specifier of type %T", apperrors.ErrInvalidRange, spec)
}

func (p *rangeParser) number(d decimal.Decimal) error {
	a, err := accounting.IntegralAccount(d)
	if err != nil {
		return err
	}
	return p.single(a)
}

func (p *rangeParser) single(account int) error {
	negative := account < 0
	if negative {
		account = -account
	}
	if _, ok := p.known[account]; !ok {
		return fmt.Errorf("%w: no account matching %d", apperrors.ErrInvalidRange, account)
	}
	p.push(account, negative)
	return nil
}

func (p *rangeParser) push(account int, negative bool) {
	if negative {
		p.subtract = append(p.subtract, account)
	} else {
		p.add = append(p.add, account)
	}
}

// expression splits s into signed terms and resolves each.
func (p *rangeParser) expression(s string) error {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return fmt.Errorf("%w: empty account range", apperrors.ErrInvalidRange)
	}
	negative := false
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != '+' && s[i] != '-' {
			continue
		}
		if term := s[start:i]; term != "" {
			if err := p.term(term, negative); err != nil {
				return err
			}
		} else if i > 0 {
			return fmt.Errorf("%w: dangling operator in '%s'", apperrors.ErrInvalidRange, s)
		}
		if i < len(s) {
			negative = s[i] == '-'
		}
		start = i + 1
	}
	return nil
}

func (p *rangeParser) term(term string, negative bool) error {
	if first, last, ok := strings.Cut(term, ":"); ok {
		lo, err1 := strconv.Atoi(first)
		hi, err2 := strconv.Atoi(last)
		if err1 != nil || err2 != nil {
			return fmt.Errorf("%w: invalid span '%s'", apperrors.ErrInvalidRange, term)
		}
		n := 0
		for _, a := range p.chart {
			if a >= lo && a <= hi {
				p.push(a, negative)
				n++
			}
		}
		if n == 0 {
			return fmt.Errorf("%w: no account matching '%s'", apperrors.ErrInvalidRange, term)
		}
		return nil
	}
	a, err := strconv.Atoi(term)
	if err != nil {
		return fmt.Errorf("%w: invalid account '%s'", apperrors.ErrInvalidRange, term)
	}
	if negative {
		a = -a
	}
	return p.single(a)
}

func sortedCopy(in []int) []int {
	out := append([]int(nil), in...)
	sort.Ints(out)
	return out
}
