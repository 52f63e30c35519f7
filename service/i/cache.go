package i

import (
	"context"

	"github.com/google/uuid"
)

// SnapshotCache keeps recently read session records close to the API.
type SnapshotCache interface {
	// Get returns the cached record and whether it was present.
	Get(ctx context.Context, id uuid.UUID) (*SessionRecord, bool, error)

	// Set stores a record until the cache TTL expires.
	Set(ctx context.Context, record *SessionRecord) error

	// Invalidate drops a cached record.
	Invalidate(ctx context.Context, id uuid.UUID) error
}
