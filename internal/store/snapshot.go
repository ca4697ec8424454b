/**
 * @description
 * This file defines the snapshot store contract for resumable checkouts: a
 * time-bounded key/value store keyed by the plan + tenure selection. The
 * store is an enhancement, never a hard dependency; implementations report
 * infrastructure failure as ErrStorageUnavailable and callers degrade to a
 * process-local store.
 */
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ashva/checkout-service/internal/domain"
)

// SnapshotTTL is the fixed lifetime of a persisted checkout snapshot,
// measured from its last write.
const SnapshotTTL = 24 * time.Hour

// snapshotKeyPrefix matches the storefront's historical persistence key so a
// key dump stays recognizable across the stack.
const snapshotKeyPrefix = "checkout_state_v1"

// SnapshotKey derives the storage key for a plan + tenure selection. Changing
// either addresses a different snapshot, so switching plans never resurrects
// an unrelated in-progress session.
func SnapshotKey(planID string, tenureMonths int) string {
	return fmt.Sprintf("%s:%s:%d", snapshotKeyPrefix, planID, tenureMonths)
}

// NewSnapshot stamps a snapshot for the given step and form data. ExpiresAt
// is always SavedAt + SnapshotTTL; every save renews the full TTL.
func NewSnapshot(step domain.Step, form domain.FormData, now time.Time) domain.Snapshot {
	return domain.Snapshot{
		SavedAt:   now.UnixMilli(),
		ExpiresAt: now.Add(SnapshotTTL).UnixMilli(),
		Step:      step,
		FormData:  form,
	}
}

// SnapshotStore persists in-progress checkout sessions across visits.
type SnapshotStore interface {
	// Save overwrites any prior snapshot under key. Last write wins, no merge.
	Save(ctx context.Context, key string, snap domain.Snapshot) error
	// Load returns the snapshot under key, or ok=false when absent. A snapshot
	// whose expiry has passed at now is evicted and reported absent.
	Load(ctx context.Context, key string, now time.Time) (domain.Snapshot, bool, error)
	// Evict removes the snapshot under key. Evicting a missing key is not an
	// error.
	Evict(ctx context.Context, key string) error
}
