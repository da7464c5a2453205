package services_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountRange(t *testing.T) {
	chart := []int{1025, 1000, 1005, 1010, 1015, 1020}

	tests := []struct {
		name         string
		spec         any
		wantAdd      []int
		wantSubtract []int
	}{
		{name: "spans joined by plus", spec: "1000:1010+1020:1020", wantAdd: []int{1000, 1005, 1010, 1020}},
		{name: "leading minus", spec: "-1000+1020:1025", wantAdd: []int{1020, 1025}, wantSubtract: []int{1000}},
		{name: "single account string", spec: "1015", wantAdd: []int{1015}},
		{name: "spaces ignored", spec: " 1000 : 1005 - 1005 ", wantAdd: []int{1000, 1005}, wantSubtract: []int{1005}},
		{name: "int", spec: 1005, wantAdd: []int{1005}},
		{name: "negative int", spec: -1005, wantSubtract: []int{1005}},
		{name: "integral float", spec: 1010.0, wantAdd: []int{1010}},
		{name: "decimal", spec: decimal.NewFromInt(1020), wantAdd: []int{1020}},
		{name: "int slice", spec: []int{1000, -1025}, wantAdd: []int{1000}, wantSubtract: []int{1025}},
		{name: "mixed slice", spec: []any{1000, "1020:1025"}, wantAdd: []int{1000, 1020, 1025}},
		{
			name:         "resolved range",
			spec:         domain.AccountRange{Add: []int{1000}, Subtract: []int{1005}},
			wantAdd:      []int{1000},
			wantSubtract: []int{1005},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.ParseAccountRange(tt.spec, chart)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdd, got.Add)
			assert.Equal(t, tt.wantSubtract, got.Subtract)
		})
	}
}

func TestParseAccountRange_Errors(t *testing.T) {
	chart := []int{1000, 1005}

	tests := []struct {
		name string
		spec any
	}{
		{name: "unknown account", spec: "9999"},
		{name: "unknown int", spec: 42},
		{name: "empty span", spec: "2000:3000"},
		{name: "malformed span", spec: "1000:abc"},
		{name: "malformed term", spec: "abc"},
		{name: "empty string", spec: ""},
		{name: "dangling operator", spec: "1000++1005"},
		{name: "fractional account", spec: 1000.5},
		{name: "unsupported type", spec: struct{}{}},
		{name: "empty slice", spec: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.ParseAccountRange(tt.spec, chart)
			assert.ErrorIs(t, err, apperrors.ErrInvalidRange)
		})
	}
}

func TestAccountRange_Accounts(t *testing.T) {
	rng := domain.AccountRange{Add: []int{1020, 1000, 1005, 1000}, Subtract: []int{1005}}
	assert.Equal(t, []int{1000, 1020}, rng.Accounts())
}
