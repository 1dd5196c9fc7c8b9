package services

import (
	"context"
	"sync"

	"github.com/lmarchand/givre/pkg/chat"
)

// MockLLM is a configurable LLMService for tests.
type MockLLM struct {
	ChatFunc func(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (string, error)

	mu    sync.Mutex
	calls []MockChatCall
}

// MockChatCall records one Chat invocation.
type MockChatCall struct {
	SystemPrompt string
	History      []chat.Message
	UserMessage  string
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Name() string {
	return "mock"
}

func (m *MockLLM) Chat(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (string, error) {
	m.mu.Lock()
	recorded := make([]chat.Message, len(history))
	copy(recorded, history)
	m.calls = append(m.calls, MockChatCall{
		SystemPrompt: systemPrompt,
		History:      recorded,
		UserMessage:  userMessage,
	})
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, systemPrompt, history, userMessage)
	}
	return `{"message":"Mock response","trigger_next_scene":false}`, nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockLLM) Calls() []MockChatCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockChatCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// SetResponse configures every Chat call to return text.
func (m *MockLLM) SetResponse(text string) {
	m.ChatFunc = func(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (string, error) {
		return text, nil
	}
}

// SetError configures every Chat call to fail with err.
func (m *MockLLM) SetError(err error) {
	m.ChatFunc = func(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (string, error) {
		return "", err
	}
}

// Reset clears call tracking and configured behavior.
func (m *MockLLM) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.ChatFunc = nil
}
