package storage

import (
	"context"

	"github.com/lmarchand/givre/pkg/state"
)

// Storage persists versioned save snapshots keyed by slot id.
type Storage interface {
	// Ping tests the store connection
	Ping(ctx context.Context) error

	// Close closes the store connection
	Close() error

	// SaveSnapshot persists a snapshot under the given slot
	SaveSnapshot(ctx context.Context, slot string, snap *state.Snapshot) error

	// LoadSnapshot retrieves a snapshot by slot.
	// Returns nil if no snapshot exists.
	LoadSnapshot(ctx context.Context, slot string) (*state.Snapshot, error)

	// DeleteSnapshot removes a snapshot by slot
	DeleteSnapshot(ctx context.Context, slot string) error
}
