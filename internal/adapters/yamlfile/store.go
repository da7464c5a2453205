// Package yamlfile stores ledger entities as YAML lists, one file per entity.
package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SscSPs/ledger_engine/internal/adapters/memory"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/cache"
	"gopkg.in/yaml.v3"
)

// DefaultReadTTL is how long a file read is served from memory.
const DefaultReadTTL = 15 * time.Second

// Store is a TabularEntity persisted to a single YAML file. A missing file
// reads as an empty list. Writes rewrite the whole file.
type Store[T any] struct {
	mu     sync.Mutex
	path   string
	key    func(T) string
	cached *cache.Value[[]T]
}

// NewStore creates a store backed by path.
func NewStore[T any](path string, key func(T) string, ttl time.Duration) *Store[T] {
	return &Store[T]{path: path, key: key, cached: cache.NewValue[[]T](ttl)}
}

var _ portsrepo.TabularEntity[struct{}] = (*Store[struct{}])(nil)

// Path returns the backing file.
func (s *Store[T]) Path() string { return s.path }

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.cached.Get(s.read)
	if err != nil {
		return nil, err
	}
	return append([]T(nil), rows...), nil
}

func (s *Store[T]) read() ([]T, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	var rows []T
	if err := yaml.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return rows, nil
}

func (s *Store[T]) write(rows []T) error {
	b, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", s.path, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	s.cached.Set(rows)
	return nil
}

// update loads the file fresh, applies fn and writes the result back.
// The file is left untouched when fn fails.
func update[T any, M portsrepo.EntityReader[T]](ctx context.Context, s *Store[T], load func([]T) M, fn func(M) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached.Invalidate()
	rows, err := s.read()
	if err != nil {
		return err
	}
	m := load(rows)
	if err := fn(m); err != nil {
		return err
	}
	out, err := m.List(ctx)
	if err != nil {
		return err
	}
	return s.write(out)
}

func (s *Store[T]) entity(rows []T) *memory.Entity[T] {
	return memory.NewEntity(s.key, rows...)
}

func (s *Store[T]) Add(ctx context.Context, rows []T) error {
	return update(ctx, s, s.entity, func(e *memory.Entity[T]) error { return e.Add(ctx, rows) })
}

func (s *Store[T]) Modify(ctx context.Context, rows []T) error {
	return update(ctx, s, s.entity, func(e *memory.Entity[T]) error { return e.Modify(ctx, rows) })
}

func (s *Store[T]) Delete(ctx context.Context, keys []string, allowMissing bool) error {
	return update(ctx, s, s.entity, func(e *memory.Entity[T]) error { return e.Delete(ctx, keys, allowMissing) })
}
