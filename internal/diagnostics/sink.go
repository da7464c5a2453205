// Package diagnostics carries per-transaction conditions out of the ledger
// pipeline without touching process-wide logging.
package diagnostics

import (
	"context"
	"log/slog"
	"sync"
)

// Severity of a diagnostic record.
type Severity string

const (
	Info    Severity = "INFO"
	Warning Severity = "WARNING"
	Error   Severity = "ERROR"
)

// Record is one diagnostic emitted while processing a transaction.
type Record struct {
	Severity      Severity `json:"severity"`
	TransactionID string   `json:"transactionId"` // empty when not tied to a transaction
	Message       string   `json:"message"`
}

// Sink receives diagnostic records.
type Sink interface {
	Emit(r Record)
}

// SinkFunc adapts a plain function to a Sink.
type SinkFunc func(Record)

// Emit calls f(r).
func (f SinkFunc) Emit(r Record) { f(r) }

// Discard drops every record.
var Discard Sink = SinkFunc(func(Record) {})

// Warn emits a warning on s.
func Warn(s Sink, transactionID, message string) {
	s.Emit(Record{Severity: Warning, TransactionID: transactionID, Message: message})
}

// Fail emits an error-severity record on s.
func Fail(s Sink, transactionID, message string) {
	s.Emit(Record{Severity: Error, TransactionID: transactionID, Message: message})
}

// Collector keeps every record it receives, mostly for tests.
type Collector struct {
	mu      sync.Mutex
	records []Record
}

// Emit appends r.
func (c *Collector) Emit(r Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
}

// Records returns a copy of the collected records.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Messages returns the messages of all records with the given severity.
func (c *Collector) Messages(sev Severity) []string {
	var out []string
	for _, r := range c.Records() {
		if r.Severity == sev {
			out = append(out, r.Message)
		}
	}
	return out
}

// Reset clears the collected records.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
}

// SlogSink forwards records to a slog.Logger.
type SlogSink struct {
	Logger *slog.Logger
}

// NewSlogSink returns a sink writing to logger, or slog.Default() when nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{Logger: logger}
}

// Emit logs r at the level matching its severity.
func (s *SlogSink) Emit(r Record) {
	level := slog.LevelInfo
	switch r.Severity {
	case Warning:
		level = slog.LevelWarn
	case Error:
		level = slog.LevelError
	}
	attrs := []slog.Attr{}
	if r.TransactionID != "" {
		attrs = append(attrs, slog.String("transaction_id", r.TransactionID))
	}
	s.Logger.LogAttrs(context.Background(), level, r.Message, attrs...)
}
