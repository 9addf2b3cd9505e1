// Package talentsnapshot stores the last payload that built cleanly for each
// class so the calculator can keep serving when the live source is down.
package talentsnapshot

import (
	"context"
	"time"

	"github.com/KirkDiggler/talent-api/internal/entities/talents"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=talentsnapshotmock github.com/KirkDiggler/talent-api/internal/repositories/talent_snapshot Repository

// Snapshot is a last-known-good payload.
type Snapshot struct {
	Class     string           `json:"class"`
	RequestID string           `json:"request_id,omitempty"`
	Payload   *talents.Payload `json:"payload"`
	FetchedAt time.Time        `json:"fetched_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// PutInput carries a snapshot to store.
type PutInput struct {
	Snapshot *Snapshot
	// TTL overrides the repository default when positive.
	TTL time.Duration
}

// PutOutput returns the stored snapshot with its expiry filled in.
type PutOutput struct {
	Snapshot *Snapshot
}

// GetInput selects a class snapshot.
type GetInput struct {
	Class string
}

// GetOutput returns the stored snapshot.
type GetOutput struct {
	Snapshot *Snapshot
}

// DeleteInput selects a class snapshot to drop.
type DeleteInput struct {
	Class string
}

// DeleteOutput reports whether anything was removed.
type DeleteOutput struct {
	Deleted bool
}

// Repository persists per-class payload snapshots.
type Repository interface {
	// Put stores a snapshot, replacing any previous one for its class.
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Get returns the class snapshot or a NotFound error.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete drops the class snapshot.
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
