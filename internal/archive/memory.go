package archive

import (
	"context"
	"sync"

	"github.com/shodh-memory/widget-gateway/internal/model"
)

// memoryStore is a ring of recent digests guarded by a mutex.
type memoryStore struct {
	mu       sync.RWMutex
	capacity int
	digests  []model.SessionDigest
	seen     map[string]struct{}
}

func newMemoryStore(capacity int) *memoryStore {
	return &memoryStore{
		capacity: capacity,
		seen:     make(map[string]struct{}),
	}
}

// Save implements Store.
func (s *memoryStore) Save(ctx context.Context, d *model.SessionDigest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.SessionID != "" {
		if _, ok := s.seen[d.SessionID]; ok {
			return ErrDuplicate
		}
		s.seen[d.SessionID] = struct{}{}
	}

	s.digests = append(s.digests, *d)
	if over := len(s.digests) - s.capacity; over > 0 {
		for _, old := range s.digests[:over] {
			delete(s.seen, old.SessionID)
		}
		s.digests = append([]model.SessionDigest(nil), s.digests[over:]...)
	}
	return nil
}

// Recent implements Store.
func (s *memoryStore) Recent(ctx context.Context, limit int) ([]model.SessionDigest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.digests) {
		limit = len(s.digests)
	}

	out := make([]model.SessionDigest, 0, limit)
	for i := len(s.digests) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.digests[i])
	}
	return out, nil
}

// Close implements Store.
func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.digests = nil
	s.seen = make(map[string]struct{})
	return nil
}
