/**
 * @description
 * Redis-backed SnapshotStore. Snapshots are stored as JSON with a native
 * Redis TTL matching the snapshot expiry, so abandoned checkouts age out of
 * Redis on their own; the payload expiry is still checked on load against the
 * caller's clock to keep eviction semantics deterministic under clock skew.
 */
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ashva/checkout-service/internal/domain"
)

// RedisSnapshotStore persists checkout snapshots in Redis.
type RedisSnapshotStore struct {
	client redis.UniversalClient
}

// NewRedisSnapshotStore wraps an existing Redis client.
func NewRedisSnapshotStore(client redis.UniversalClient) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

// Save writes the snapshot under key with a TTL running to its expiry.
func (s *RedisSnapshotStore) Save(ctx context.Context, key string, snap domain.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: marshal snapshot: %v", domain.ErrStorageUnavailable, err)
	}
	ttl := time.Duration(snap.ExpiresAt-snap.SavedAt) * time.Millisecond
	if ttl <= 0 {
		ttl = SnapshotTTL
	}
	if err := s.client.Set(ctx, key, body, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Load fetches and decodes the snapshot under key. Expired or undecodable
// snapshots are evicted and reported absent.
func (s *RedisSnapshotStore) Load(ctx context.Context, key string, now time.Time) (domain.Snapshot, bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		// A corrupt snapshot is unrecoverable; drop it and start fresh.
		_ = s.client.Del(ctx, key).Err()
		return domain.Snapshot{}, false, nil
	}
	if now.UnixMilli() > snap.ExpiresAt {
		_ = s.client.Del(ctx, key).Err()
		return domain.Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Evict removes the snapshot under key.
func (s *RedisSnapshotStore) Evict(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
