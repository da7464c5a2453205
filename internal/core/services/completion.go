package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/diagnostics"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

// CompletionInput holds the raw entities the serialized journal is derived from.
type CompletionInput struct {
	Journal       []domain.Posting
	Accounts      []domain.Account
	TaxCodes      []domain.TaxCode
	Prices        []domain.Price
	FxAdjustments []domain.FxAdjustment
}

// CompletionStep is one stage of ledger completion.
type CompletionStep interface {
	Name() string
	Execute(ctx context.Context, state *CompletionState) error
}

// CompletionState is shared by all completion steps. Steps append to or
// rewrite Postings; the final step fills Serialized.
type CompletionState struct {
	Input      CompletionInput
	Settings   *domain.Settings
	Sink       diagnostics.Sink
	Chart      map[int]domain.Account
	ChartOrder []int
	TaxCodes   map[string]domain.TaxCode
	Prices     *PriceBook
	Postings   []domain.Posting
	Serialized domain.SerializedJournal
}

// DefaultCompletionSteps returns the completion stages in order.
func DefaultCompletionSteps() []CompletionStep {
	return []CompletionStep{
		&StandardizeStep{},
		&SanitizeStep{},
		&TargetBalanceStep{},
		&TaxPostingStep{},
		&BaseCurrencyStep{},
		&FxRevaluationStep{},
		&SerializeStep{},
	}
}

// CompleteJournal derives the serialized journal from in. Per-transaction
// problems are reported to sink; structural problems abort with an error.
func CompleteJournal(ctx context.Context, in CompletionInput, settings *domain.Settings, sink diagnostics.Sink) (domain.SerializedJournal, error) {
	return RunCompletion(ctx, in, settings, sink, DefaultCompletionSteps())
}

// RunCompletion runs steps over a fresh state built from in.
func RunCompletion(ctx context.Context, in CompletionInput, settings *domain.Settings, sink diagnostics.Sink, steps []CompletionStep) (domain.SerializedJournal, error) {
	if settings == nil {
		return nil, fmt.Errorf("ledger settings are required")
	}
	if sink == nil {
		sink = diagnostics.Discard
	}
	chart, order := chartIndex(in.Accounts)
	codes := make(map[string]domain.TaxCode, len(in.TaxCodes))
	for _, t := range in.TaxCodes {
		codes[t.ID] = t
	}
	state := &CompletionState{
		Input:      in,
		Settings:   settings,
		Sink:       sink,
		Chart:      chart,
		ChartOrder: order,
		TaxCodes:   codes,
		Prices:     NewPriceBook(in.Prices),
		Postings:   append([]domain.Posting(nil), in.Journal...),
	}
	for _, step := range steps {
		if err := step.Execute(ctx, state); err != nil {
			return nil, fmt.Errorf("ledger completion step %s: %w", step.Name(), err)
		}
	}
	return state.Serialized, nil
}

// StandardizeStep assigns synthetic group ids and propagates dates.
type StandardizeStep struct{}

func (s *StandardizeStep) Name() string { return "standardize" }

func (s *StandardizeStep) Execute(ctx context.Context, state *CompletionState) error {
	postings, err := mapping.StandardizePostings(state.Postings)
	if err != nil {
		return err
	}
	state.Postings = postings
	return nil
}

// SanitizeStep drops invalid transactions and sorts by date and group id.
type SanitizeStep struct{}

func (s *SanitizeStep) Name() string { return "sanitize" }

func (s *SanitizeStep) Execute(ctx context.Context, state *CompletionState) error {
	state.Postings = SanitizeJournal(state.Postings, state.Input.Accounts, state.Input.TaxCodes, state.Sink)
	sortPostings(state.Postings)
	return nil
}

// SerializeStep expands the completed postings into the long-form journal.
type SerializeStep struct{}

func (s *SerializeStep) Name() string { return "serialize" }

func (s *SerializeStep) Execute(ctx context.Context, state *CompletionState) error {
	state.Serialized = serialize(state.Postings)
	return nil
}
