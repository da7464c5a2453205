package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PriceBook answers "price of ticker in currency as of date" from a price history.
type PriceBook struct {
	series map[string]map[string][]domain.Price // ticker -> currency -> ascending by date
}

// NewPriceBook indexes prices by ticker and quote currency.
func NewPriceBook(prices []domain.Price) *PriceBook {
	b := &PriceBook{series: map[string]map[string][]domain.Price{}}
	for _, p := range prices {
		byCurrency, ok := b.series[p.Ticker]
		if !ok {
			byCurrency = map[string][]domain.Price{}
			b.series[p.Ticker] = byCurrency
		}
		byCurrency[p.Currency] = append(byCurrency[p.Currency], p)
	}
	for _, byCurrency := range b.series {
		for _, s := range byCurrency {
			sort.SliceStable(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
		}
	}
	return b
}

// Lookup returns the latest price of ticker in currency observed on or before
// date. A ticker is worth 1 in its own currency.
func (b *PriceBook) Lookup(ticker, currency string, date time.Time) (decimal.Decimal, error) {
	if ticker == currency {
		return decimal.NewFromInt(1), nil
	}
	byCurrency, ok := b.series[ticker]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no price data available for '%s'", apperrors.ErrUnresolvedFxRate, ticker)
	}
	s, ok := byCurrency[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no %s prices available for '%s'", apperrors.ErrUnresolvedFxRate, currency, ticker)
	}
	// first observation strictly after date
	i := sort.Search(len(s), func(i int) bool { return s[i].Date.After(date) })
	if i == 0 {
		return decimal.Zero, fmt.Errorf("%w: no %s prices available for '%s' on or before %s",
			apperrors.ErrUnresolvedFxRate, currency, ticker, date.Format(domain.DateLayout))
	}
	return s[i-1].Price, nil
}
