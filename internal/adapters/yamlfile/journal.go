package yamlfile

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/adapters/memory"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// JournalStore persists raw postings to a YAML file with the group id
// semantics of memory.JournalStore.
type JournalStore struct {
	*Store[domain.Posting]
}

// NewJournalStore creates a journal store backed by path.
func NewJournalStore(path string, ttl time.Duration) *JournalStore {
	return &JournalStore{Store: NewStore(path, func(p domain.Posting) string { return p.GroupID }, ttl)}
}

var _ portsrepo.JournalRepositoryFacade = (*JournalStore)(nil)

func loadJournal(rows []domain.Posting) *memory.JournalStore {
	return memory.NewJournalStore(rows...)
}

func (s *JournalStore) Add(ctx context.Context, postings []domain.Posting) error {
	return update(ctx, s.Store, loadJournal, func(j *memory.JournalStore) error { return j.Add(ctx, postings) })
}

func (s *JournalStore) Modify(ctx context.Context, postings []domain.Posting) error {
	return update(ctx, s.Store, loadJournal, func(j *memory.JournalStore) error { return j.Modify(ctx, postings) })
}

func (s *JournalStore) Delete(ctx context.Context, groupIDs []string, allowMissing bool) error {
	return update(ctx, s.Store, loadJournal, func(j *memory.JournalStore) error { return j.Delete(ctx, groupIDs, allowMissing) })
}

func (s *JournalStore) AddTransaction(ctx context.Context, rows []domain.Posting) (string, error) {
	var id string
	err := update(ctx, s.Store, loadJournal, func(j *memory.JournalStore) error {
		var err error
		id, err = j.AddTransaction(ctx, rows)
		return err
	})
	return id, err
}
