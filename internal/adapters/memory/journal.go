package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

// JournalStore keeps raw postings in memory. Keys are group ids; generated
// ids are integers counting up from the highest integer id in use.
type JournalStore struct {
	mu   sync.RWMutex
	rows []domain.Posting
}

// NewJournalStore creates a store holding postings as given.
func NewJournalStore(postings ...domain.Posting) *JournalStore {
	return &JournalStore{rows: append([]domain.Posting(nil), postings...)}
}

var _ portsrepo.JournalRepositoryFacade = (*JournalStore)(nil)

func (s *JournalStore) List(ctx context.Context) ([]domain.Posting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Posting(nil), s.rows...), nil
}

func (s *JournalStore) groupIDs() map[string]struct{} {
	ids := map[string]struct{}{}
	for _, p := range s.rows {
		ids[p.GroupID] = struct{}{}
	}
	return ids
}

func (s *JournalStore) nextID() int {
	next := 1
	for _, p := range s.rows {
		if n, err := strconv.Atoi(p.GroupID); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}

// Add stores postings. Rows without a group id are grouped by
// mapping.AssignGroupIDs under generated ids; explicit ids already in use
// fail with ErrDuplicate.
func (s *JournalStore) Add(ctx context.Context, postings []domain.Posting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.groupIDs()
	for _, p := range postings {
		if _, ok := ids[p.GroupID]; p.GroupID != "" && ok {
			return fmt.Errorf("%w: journal group id '%s'", apperrors.ErrDuplicate, p.GroupID)
		}
	}
	next := s.nextID()
	rows, err := mapping.AssignGroupIDs(postings, func() string {
		id := strconv.Itoa(next)
		next++
		return id
	})
	if err != nil {
		return err
	}
	s.rows = append(s.rows, rows...)
	return nil
}

// Modify replaces whole transactions: the stored rows of every group id in
// postings are removed before the new rows are appended.
func (s *JournalStore) Modify(ctx context.Context, postings []domain.Posting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.groupIDs()
	replace := map[string]struct{}{}
	for _, p := range postings {
		if _, ok := ids[p.GroupID]; !ok {
			return fmt.Errorf("%w: journal group id '%s'", apperrors.ErrNotFound, p.GroupID)
		}
		replace[p.GroupID] = struct{}{}
	}
	s.remove(replace)
	s.rows = append(s.rows, postings...)
	return nil
}

func (s *JournalStore) Delete(ctx context.Context, groupIDs []string, allowMissing bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.groupIDs()
	drop := map[string]struct{}{}
	var missing []string
	for _, id := range groupIDs {
		if _, ok := ids[id]; !ok {
			missing = append(missing, id)
		}
		drop[id] = struct{}{}
	}
	if len(missing) > 0 && !allowMissing {
		return fmt.Errorf("%w: journal group ids %s", apperrors.ErrNotFound, strings.Join(missing, ", "))
	}
	s.remove(drop)
	return nil
}

func (s *JournalStore) remove(ids map[string]struct{}) {
	kept := s.rows[:0:0]
	for _, p := range s.rows {
		if _, ok := ids[p.GroupID]; !ok {
			kept = append(kept, p)
		}
	}
	s.rows = kept
}

// AddTransaction stores rows as one transaction under a generated id.
func (s *JournalStore) AddTransaction(ctx context.Context, rows []domain.Posting) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strconv.Itoa(s.nextID())
	for _, p := range rows {
		p.GroupID = id
		s.rows = append(s.rows, p)
	}
	return id, nil
}
