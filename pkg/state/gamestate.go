package state

import (
	"time"

	"github.com/google/uuid"
)

// ConversationEntry is one line of the cross-scene conversation log. The
// log exists for persistence and inspection only; it is never replayed
// into the LLM.
type ConversationEntry struct {
	SceneID   string    `json:"sceneId"`
	Role      string    `json:"role"` // "user" or "npc"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// GameState is the player's cross-scene progress. Mutators report whether
// they changed anything so the owning manager can emit a single state
// changed notification per actual mutation.
type GameState struct {
	ID                  uuid.UUID           `json:"id"`
	CurrentSceneID      string              `json:"currentSceneId"`
	SceneHistory        []string            `json:"sceneHistory"`
	Flags               map[string]bool     `json:"flags"`
	Inventory           []string            `json:"inventory"`
	ConversationHistory []ConversationEntry `json:"conversationHistory"`
}

func NewGameState() *GameState {
	return &GameState{
		ID:                  uuid.New(),
		SceneHistory:        make([]string, 0),
		Flags:               make(map[string]bool),
		Inventory:           make([]string, 0),
		ConversationHistory: make([]ConversationEntry, 0),
	}
}

// SetCurrentScene records entry into a scene. The outgoing scene id is
// pushed onto history only when it differs from the incoming id, so
// re-entering the current scene does not grow history.
func (gs *GameState) SetCurrentScene(sceneID string) bool {
	if gs.CurrentSceneID == sceneID {
		return false
	}
	if gs.CurrentSceneID != "" {
		gs.SceneHistory = append(gs.SceneHistory, gs.CurrentSceneID)
	}
	gs.CurrentSceneID = sceneID
	return true
}

// PreviousScene returns the most recently left scene id, or "".
func (gs *GameState) PreviousScene() string {
	if len(gs.SceneHistory) == 0 {
		return ""
	}
	return gs.SceneHistory[len(gs.SceneHistory)-1]
}

func (gs *GameState) SetFlag(key string, value bool) bool {
	if current, ok := gs.Flags[key]; ok && current == value {
		return false
	}
	gs.Flags[key] = value
	return true
}

// Flag returns the flag value, defaulting to false when unset.
func (gs *GameState) Flag(key string) bool {
	return gs.Flags[key]
}

// AddItem appends an item to the inventory. Duplicates are no-ops.
func (gs *GameState) AddItem(item string) bool {
	if gs.HasItem(item) {
		return false
	}
	gs.Inventory = append(gs.Inventory, item)
	return true
}

// RemoveItem removes an item from the inventory. Absence is a no-op.
func (gs *GameState) RemoveItem(item string) bool {
	for i, existing := range gs.Inventory {
		if existing == item {
			gs.Inventory = append(gs.Inventory[:i], gs.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

func (gs *GameState) HasItem(item string) bool {
	for _, existing := range gs.Inventory {
		if existing == item {
			return true
		}
	}
	return false
}

// AddConversationEntry appends to the conversation log, timestamping at
// insertion.
func (gs *GameState) AddConversationEntry(sceneID, role, message string) {
	gs.ConversationHistory = append(gs.ConversationHistory, ConversationEntry{
		SceneID:   sceneID,
		Role:      role,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// ConversationForScene returns the log entries recorded in the given scene.
func (gs *GameState) ConversationForScene(sceneID string) []ConversationEntry {
	entries := make([]ConversationEntry, 0)
	for _, e := range gs.ConversationHistory {
		if e.SceneID == sceneID {
			entries = append(entries, e)
		}
	}
	return entries
}
