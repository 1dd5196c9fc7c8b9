package state

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameState_SetCurrentScene(t *testing.T) {
	gs := NewGameState()

	assert.True(t, gs.SetCurrentScene("a"))
	assert.Equal(t, "a", gs.CurrentSceneID)
	assert.Empty(t, gs.SceneHistory, "first scene entry should not push history")

	// Re-entering the same scene is idempotent.
	assert.False(t, gs.SetCurrentScene("a"))
	assert.Empty(t, gs.SceneHistory)

	assert.True(t, gs.SetCurrentScene("b"))
	assert.Equal(t, []string{"a"}, gs.SceneHistory)
	assert.Equal(t, "a", gs.PreviousScene())

	assert.True(t, gs.SetCurrentScene("c"))
	assert.Equal(t, []string{"a", "b"}, gs.SceneHistory)
}

func TestGameState_Flags(t *testing.T) {
	gs := NewGameState()

	assert.False(t, gs.Flag("met_odile"), "unset flag defaults to false")

	assert.True(t, gs.SetFlag("met_odile", true))
	assert.True(t, gs.Flag("met_odile"))

	// Setting the same value again is not a mutation.
	assert.False(t, gs.SetFlag("met_odile", true))
	assert.True(t, gs.SetFlag("met_odile", false))
	assert.False(t, gs.Flag("met_odile"))
}

func TestGameState_Inventory(t *testing.T) {
	gs := NewGameState()

	assert.True(t, gs.AddItem("brass key"))
	assert.True(t, gs.AddItem("letter"))
	assert.False(t, gs.AddItem("brass key"), "duplicate add is a no-op")
	assert.Equal(t, []string{"brass key", "letter"}, gs.Inventory)

	assert.True(t, gs.HasItem("letter"))
	assert.True(t, gs.RemoveItem("brass key"))
	assert.False(t, gs.RemoveItem("brass key"), "absent remove is a no-op")
	assert.Equal(t, []string{"letter"}, gs.Inventory)
}

func TestGameState_ConversationLog(t *testing.T) {
	gs := NewGameState()

	gs.AddConversationEntry("intro", "user", "Hello?")
	gs.AddConversationEntry("intro", "npc", "Welcome, traveler.")
	gs.AddConversationEntry("reveal", "user", "What is this place?")

	require.Len(t, gs.ConversationHistory, 3)
	for _, e := range gs.ConversationHistory {
		assert.False(t, e.Timestamp.IsZero(), "entries are timestamped at insertion")
	}

	intro := gs.ConversationForScene("intro")
	require.Len(t, intro, 2)
	assert.Equal(t, "Hello?", intro[0].Message)
	assert.Equal(t, "npc", intro[1].Role)

	assert.Empty(t, gs.ConversationForScene("workshop"))
}

func TestSnapshot_RoundTrip(t *testing.T) {
	gs := NewGameState()
	gs.SetCurrentScene("intro")
	gs.SetFlag("met_odile", true)
	gs.AddItem("brass key")

	snap := NewSnapshot(gs)
	assert.Equal(t, SaveVersion, snap.Version)
	assert.WithinDuration(t, time.Now(), snap.SavedAt, time.Second)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var restored Snapshot
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, gs.ID, restored.GameState.ID)
	assert.Equal(t, "intro", restored.GameState.CurrentSceneID)
	assert.True(t, restored.GameState.Flag("met_odile"))
	assert.Equal(t, []string{"brass key"}, restored.GameState.Inventory)
}
