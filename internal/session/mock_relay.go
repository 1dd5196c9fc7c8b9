package session

import (
	"context"
	"sync"

	"github.com/lmarchand/givre/pkg/chat"
)

// MockRelay is a configurable Relay for tests.
type MockRelay struct {
	SendMessageFunc func(ctx context.Context, message string, history []chat.Message, systemPrompt string) (*chat.SceneReply, error)

	mu    sync.Mutex
	calls []MockRelayCall
}

// MockRelayCall records one SendMessage invocation.
type MockRelayCall struct {
	Message      string
	History      []chat.Message
	SystemPrompt string
}

func NewMockRelay() *MockRelay {
	return &MockRelay{}
}

func (m *MockRelay) SendMessage(ctx context.Context, message string, history []chat.Message, systemPrompt string) (*chat.SceneReply, error) {
	m.mu.Lock()
	recorded := make([]chat.Message, len(history))
	copy(recorded, history)
	m.calls = append(m.calls, MockRelayCall{
		Message:      message,
		History:      recorded,
		SystemPrompt: systemPrompt,
	})
	m.mu.Unlock()

	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, message, history, systemPrompt)
	}
	return &chat.SceneReply{Message: "Mock reply"}, nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockRelay) Calls() []MockRelayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockRelayCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// SetError configures every SendMessage call to fail with err.
func (m *MockRelay) SetError(err error) {
	m.SendMessageFunc = func(ctx context.Context, message string, history []chat.Message, systemPrompt string) (*chat.SceneReply, error) {
		return nil, err
	}
}

// SetReply configures every SendMessage call to return the given reply.
func (m *MockRelay) SetReply(reply *chat.SceneReply) {
	m.SendMessageFunc = func(ctx context.Context, message string, history []chat.Message, systemPrompt string) (*chat.SceneReply, error) {
		return reply, nil
	}
}
