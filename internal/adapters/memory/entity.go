package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// Entity is a TabularEntity held in memory, keyed by key and kept in insertion order.
type Entity[T any] struct {
	mu   sync.RWMutex
	key  func(T) string
	rows []T
}

// NewEntity creates an entity holding rows. Duplicate keys in rows are not checked.
func NewEntity[T any](key func(T) string, rows ...T) *Entity[T] {
	return &Entity[T]{key: key, rows: append([]T(nil), rows...)}
}

var _ portsrepo.TabularEntity[struct{}] = (*Entity[struct{}])(nil)

func (e *Entity[T]) List(ctx context.Context) ([]T, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]T(nil), e.rows...), nil
}

func (e *Entity[T]) index() map[string]int {
	idx := make(map[string]int, len(e.rows))
	for i, r := range e.rows {
		idx[e.key(r)] = i
	}
	return idx
}

// Add appends rows. Nothing is added when any key already exists.
func (e *Entity[T]) Add(ctx context.Context, rows []T) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.index()
	for _, r := range rows {
		k := e.key(r)
		if _, ok := idx[k]; ok {
			return fmt.Errorf("%w: key '%s'", apperrors.ErrDuplicate, k)
		}
		idx[k] = -1
	}
	e.rows = append(e.rows, rows...)
	return nil
}

// Modify replaces rows in place. Nothing changes when any key is missing.
func (e *Entity[T]) Modify(ctx context.Context, rows []T) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.index()
	for _, r := range rows {
		if _, ok := idx[e.key(r)]; !ok {
			return fmt.Errorf("%w: key '%s'", apperrors.ErrNotFound, e.key(r))
		}
	}
	for _, r := range rows {
		e.rows[idx[e.key(r)]] = r
	}
	return nil
}

func (e *Entity[T]) Delete(ctx context.Context, keys []string, allowMissing bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.index()
	drop := make(map[string]struct{}, len(keys))
	var missing []string
	for _, k := range keys {
		if _, ok := idx[k]; !ok {
			missing = append(missing, k)
		}
		drop[k] = struct{}{}
	}
	if len(missing) > 0 && !allowMissing {
		return fmt.Errorf("%w: keys %s", apperrors.ErrNotFound, strings.Join(missing, ", "))
	}
	kept := e.rows[:0:0]
	for _, r := range e.rows {
		if _, ok := drop[e.key(r)]; !ok {
			kept = append(kept, r)
		}
	}
	e.rows = kept
	return nil
}
