// internal/membership/memstore.go
package membership

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a Store that keeps members in process memory only.
type MemoryStore struct {
	mu      sync.Mutex
	members []Member
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) ([]Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Member, len(s.members))
	for i, m := range s.members {
		out[i] = m.clone()
	}
	return out, nil
}

func (s *MemoryStore) Insert(ctx context.Context, m Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(m.ID) >= 0 {
		return fmt.Errorf("insert member %s: duplicate id", m.ID)
	}
	s.members = slices.Insert(s.members, 0, m.clone())
	return nil
}

func (s *MemoryStore) Replace(ctx context.Context, m Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(m.ID)
	if i < 0 {
		return fmt.Errorf("replace member %s: %w", m.ID, ErrMemberNotFound)
	}
	s.members[i] = m.clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.members = slices.Delete(s.members, i, i+1)
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) index(id uuid.UUID) int {
	return slices.IndexFunc(s.members, func(m Member) bool { return m.ID == id })
}
