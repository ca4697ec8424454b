package store

import (
	"context"
	"sync"
	"time"

	"github.com/ashva/checkout-service/internal/domain"
)

// MemorySnapshotStore is an in-process SnapshotStore. It backs tests and the
// degraded mode used when Redis is not configured.
type MemorySnapshotStore struct {
	mu    sync.RWMutex
	snaps map[string]domain.Snapshot
}

// NewMemorySnapshotStore creates an empty in-memory store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snaps: make(map[string]domain.Snapshot)}
}

// Save stores the snapshot under key, replacing any prior value.
func (s *MemorySnapshotStore) Save(ctx context.Context, key string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[key] = snap
	return nil
}

// Load returns the snapshot under key, purging it first when expired.
func (s *MemorySnapshotStore) Load(ctx context.Context, key string, now time.Time) (domain.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[key]
	if !ok {
		return domain.Snapshot{}, false, nil
	}
	if now.UnixMilli() > snap.ExpiresAt {
		delete(s.snaps, key)
		return domain.Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Evict removes the snapshot under key.
func (s *MemorySnapshotStore) Evict(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, key)
	return nil
}
