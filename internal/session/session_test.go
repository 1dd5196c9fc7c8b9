package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarchand/givre/pkg/chat"
	"github.com/lmarchand/givre/pkg/scene"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func testScene() *scene.Scene {
	return &scene.Scene{
		ID:            "intro",
		NarrativeText: "Snow falls over the clock tower.",
		NPC: scene.NPC{
			Name:           "Odile",
			SystemPrompt:   "A guarded clockmaker.",
			SecretTriggers: []string{"The player mentions the frozen gear. Trigger scene 'workshop'."},
		},
	}
}

func TestSession_RequiresInit(t *testing.T) {
	s := New(NewMockRelay(), testLogger())

	_, err := s.SendMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Empty(t, s.SceneID())
}

func TestSession_SendMessage(t *testing.T) {
	relay := NewMockRelay()
	relay.SetReply(&chat.SceneReply{Message: "Welcome, traveler."})

	s := New(relay, testLogger())
	s.InitForScene(testScene(), "English")
	assert.Equal(t, "intro", s.SceneID())

	reply, err := s.SendMessage(context.Background(), "Hello?")
	require.NoError(t, err)
	assert.Equal(t, "Welcome, traveler.", reply.Message)

	// User turn plus model turn; the model turn holds the serialized reply.
	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, chat.Message{Role: chat.RoleUser, Content: "Hello?"}, history[0])
	assert.Equal(t, chat.RoleModel, history[1].Role)

	var recorded chat.SceneReply
	require.NoError(t, json.Unmarshal([]byte(history[1].Content), &recorded))
	assert.Equal(t, "Welcome, traveler.", recorded.Message)

	// The relay saw the prior history without the just-appended user turn.
	calls := relay.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Hello?", calls[0].Message)
	assert.Empty(t, calls[0].History)
	assert.Contains(t, calls[0].SystemPrompt, "You are Odile")
	assert.Contains(t, calls[0].SystemPrompt, "frozen gear")

	// Second turn: relay receives the two earlier turns as history.
	_, err = s.SendMessage(context.Background(), "Tell me more.")
	require.NoError(t, err)
	calls = relay.Calls()
	require.Len(t, calls, 2)
	assert.Len(t, calls[1].History, 2)
	assert.Len(t, s.History(), 4)
}

func TestSession_RollbackOnRelayFailure(t *testing.T) {
	relay := NewMockRelay()
	s := New(relay, testLogger())
	s.InitForScene(testScene(), "English")

	_, err := s.SendMessage(context.Background(), "first")
	require.NoError(t, err)
	before := len(s.History())

	relay.SetError(errors.New("relay unavailable"))
	_, err = s.SendMessage(context.Background(), "doomed")
	require.ErrorContains(t, err, "relay unavailable")

	assert.Equal(t, before, len(s.History()), "failed turn must be rolled back")
}

func TestSession_InitResetsHistory(t *testing.T) {
	relay := NewMockRelay()
	s := New(relay, testLogger())
	s.InitForScene(testScene(), "English")

	_, err := s.SendMessage(context.Background(), "hello")
	require.NoError(t, err)
	require.NotEmpty(t, s.History())

	next := testScene()
	next.ID = "reveal"
	s.InitForScene(next, "French")

	assert.Empty(t, s.History(), "entering a scene clears the turn history")
	assert.Equal(t, "reveal", s.SceneID())
	assert.Contains(t, s.SystemPrompt(), "Respond in French")
}

func TestSession_ClearHistory(t *testing.T) {
	s := New(NewMockRelay(), testLogger())
	s.InitForScene(testScene(), "English")

	_, err := s.SendMessage(context.Background(), "hello")
	require.NoError(t, err)

	s.ClearHistory()
	assert.Empty(t, s.History())
	assert.Equal(t, "intro", s.SceneID(), "clearing history keeps the scene binding")
}
