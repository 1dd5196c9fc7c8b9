package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lmarchand/givre/pkg/chat"
	"github.com/lmarchand/givre/pkg/prompts"
	"github.com/lmarchand/givre/pkg/scene"
)

// ErrNotInitialized is returned when a session operation runs before
// InitForScene.
var ErrNotInitialized = errors.New("session not initialized for a scene")

// Relay sends a conversation turn to the LLM and returns the normalized
// structured reply.
type Relay interface {
	SendMessage(ctx context.Context, message string, history []chat.Message, systemPrompt string) (*chat.SceneReply, error)
}

// Session holds per-scene chat state: the ordered turn history and the
// system prompt derived once per scene load. One session is active at a
// time; entering a new scene resets it.
type Session struct {
	mu           sync.Mutex
	relay        Relay
	logger       *slog.Logger
	scene        *scene.Scene
	systemPrompt string
	history      []chat.Message
}

func New(relay Relay, logger *slog.Logger) *Session {
	return &Session{
		relay:  relay,
		logger: logger,
	}
}

// InitForScene resets the turn history and rebuilds the system prompt from
// the scene's narrative, NPC persona, secret triggers, and the reply
// language.
func (s *Session) InitForScene(sc *scene.Scene, languageName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scene = sc
	s.history = nil
	s.systemPrompt = prompts.BuildSystemPrompt(sc, languageName)

	s.logger.Debug("Session initialized",
		"scene", sc.ID,
		"npc", sc.NPC.Name,
		"triggers", len(sc.NPC.SecretTriggers))
}

// SendMessage appends a user turn, invokes the relay with the prior turns
// (the new message travels separately as the active prompt), records the
// model turn, and returns the structured reply. If the relay call fails the
// user turn is rolled back so the history never holds a turn with no
// answer.
func (s *Session) SendMessage(ctx context.Context, userText string) (*chat.SceneReply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scene == nil {
		return nil, ErrNotInitialized
	}

	s.history = append(s.history, chat.Message{
		Role:    chat.RoleUser,
		Content: userText,
	})

	prior := s.history[:len(s.history)-1]
	reply, err := s.relay.SendMessage(ctx, userText, prior, s.systemPrompt)
	if err != nil {
		s.history = s.history[:len(s.history)-1]
		return nil, fmt.Errorf("relay call failed: %w", err)
	}

	serialized, err := json.Marshal(reply)
	if err != nil {
		// Reply shape is plain data; this cannot realistically fail.
		serialized = []byte(reply.Message)
	}
	s.history = append(s.history, chat.Message{
		Role:    chat.RoleModel,
		Content: string(serialized),
	})

	return reply, nil
}

// History returns a copy of the turn sequence.
func (s *Session) History() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chat.Message, len(s.history))
	copy(out, s.history)
	return out
}

// SceneID returns the active scene id, or "" before initialization.
func (s *Session) SceneID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scene == nil {
		return ""
	}
	return s.scene.ID
}

// SystemPrompt returns the derived system prompt, or "" before
// initialization.
func (s *Session) SystemPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.systemPrompt
}

// ClearHistory drops the turn history but keeps the scene binding.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
