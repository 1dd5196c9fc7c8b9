package state

import "time"

// SaveVersion is the current save snapshot format version. Restore requires
// an exact match; there is no migration path.
const SaveVersion = "1.0.0"

// Snapshot is the persisted form of a game state.
type Snapshot struct {
	GameState *GameState `json:"gameState"`
	SavedAt   time.Time  `json:"savedAt"`
	Version   string     `json:"version"`
}

// NewSnapshot wraps a game state for persistence, stamping the save time
// and current format version.
func NewSnapshot(gs *GameState) *Snapshot {
	return &Snapshot{
		GameState: gs,
		SavedAt:   time.Now(),
		Version:   SaveVersion,
	}
}
