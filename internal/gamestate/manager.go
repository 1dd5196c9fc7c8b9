package gamestate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lmarchand/givre/internal/events"
	"github.com/lmarchand/givre/internal/storage"
	"github.com/lmarchand/givre/pkg/state"
)

// DefaultSlot is the save slot used when no explicit slot is configured.
const DefaultSlot = "default"

// Manager owns the live game state. Every mutation that actually changes
// something is followed by a state.updated event so presentation stays in
// sync. Persistence failures are reported as boolean results, never
// propagated as errors.
type Manager struct {
	mu     sync.Mutex
	gs     *state.GameState
	bus    *events.Bus
	store  storage.Storage
	logger *slog.Logger
	slot   string
}

func NewManager(store storage.Storage, bus *events.Bus, logger *slog.Logger, slot string) *Manager {
	if slot == "" {
		slot = DefaultSlot
	}
	return &Manager{
		gs:     state.NewGameState(),
		bus:    bus,
		store:  store,
		logger: logger,
		slot:   slot,
	}
}

// State exposes the live game state for reads. Mutations go through the
// manager so notifications are never skipped.
func (m *Manager) State() *state.GameState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gs
}

func (m *Manager) CurrentSceneID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gs.CurrentSceneID
}

func (m *Manager) SceneHistory() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.gs.SceneHistory))
	copy(out, m.gs.SceneHistory)
	return out
}

func (m *Manager) SetCurrentScene(sceneID string) {
	m.mu.Lock()
	changed := m.gs.SetCurrentScene(sceneID)
	m.mu.Unlock()
	if changed {
		m.bus.Publish(events.StateUpdated{})
	}
}

func (m *Manager) SetFlag(key string, value bool) {
	m.mu.Lock()
	changed := m.gs.SetFlag(key, value)
	m.mu.Unlock()
	if changed {
		m.bus.Publish(events.StateUpdated{})
	}
}

func (m *Manager) Flag(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gs.Flag(key)
}

func (m *Manager) AddItem(item string) {
	m.mu.Lock()
	changed := m.gs.AddItem(item)
	m.mu.Unlock()
	if changed {
		m.bus.Publish(events.StateUpdated{})
	}
}

func (m *Manager) RemoveItem(item string) {
	m.mu.Lock()
	changed := m.gs.RemoveItem(item)
	m.mu.Unlock()
	if changed {
		m.bus.Publish(events.StateUpdated{})
	}
}

func (m *Manager) HasItem(item string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gs.HasItem(item)
}

// AddConversationEntry appends to the conversation log under the current
// scene.
func (m *Manager) AddConversationEntry(role, message string) {
	m.mu.Lock()
	m.gs.AddConversationEntry(m.gs.CurrentSceneID, role, message)
	m.mu.Unlock()
	m.bus.Publish(events.StateUpdated{})
}

func (m *Manager) ConversationForScene(sceneID string) []state.ConversationEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gs.ConversationForScene(sceneID)
}

// Save writes a versioned snapshot to the store. Returns false on any
// persistence failure.
func (m *Manager) Save(ctx context.Context) bool {
	m.mu.Lock()
	snap := state.NewSnapshot(m.gs)
	m.mu.Unlock()

	if err := m.store.SaveSnapshot(ctx, m.slot, snap); err != nil {
		m.logger.Error("Failed to save game state", "slot", m.slot, "error", err)
		return false
	}
	return true
}

// Load restores the stored snapshot. A missing snapshot or a version
// mismatch is treated as "no save available": Load returns false and the
// current state is untouched.
func (m *Manager) Load(ctx context.Context) bool {
	snap, err := m.store.LoadSnapshot(ctx, m.slot)
	if err != nil {
		m.logger.Error("Failed to load game state", "slot", m.slot, "error", err)
		return false
	}
	if snap == nil || snap.GameState == nil {
		return false
	}
	if snap.Version != state.SaveVersion {
		m.logger.Warn("Save version mismatch, ignoring snapshot",
			"slot", m.slot,
			"saved_version", snap.Version,
			"current_version", state.SaveVersion)
		return false
	}

	m.mu.Lock()
	m.gs = snap.GameState
	m.mu.Unlock()

	m.bus.Publish(events.StateUpdated{})
	return true
}

// HasSave reports whether a restorable snapshot exists.
func (m *Manager) HasSave(ctx context.Context) bool {
	snap, err := m.store.LoadSnapshot(ctx, m.slot)
	if err != nil {
		return false
	}
	return snap != nil && snap.Version == state.SaveVersion
}

// Reset replaces the state with a fresh one and notifies.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.gs = state.NewGameState()
	m.mu.Unlock()
	m.bus.Publish(events.StateUpdated{})
}
