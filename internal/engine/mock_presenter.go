package engine

import (
	"context"
	"sync"
	"time"

	"github.com/lmarchand/givre/pkg/scene"
)

// ChatLine is one recorded conversation line.
type ChatLine struct {
	Role    string
	Message string
}

// PlayedVideo records one PlayVideo call.
type PlayedVideo struct {
	URL         string
	MaxDuration time.Duration
}

// MockPresenter records every presentation call for assertions in tests.
type MockPresenter struct {
	mu sync.Mutex

	Background string
	Narrative  string
	NPCName    string
	Portrait   string
	Hints      []scene.Hint
	Chat       []ChatLine
	ChatClears int
	Typing     bool
	Visible    bool
	Videos     []PlayedVideo
	FadeOuts   int
	FadeIns    int
	Errors     []string
}

var _ Presenter = (*MockPresenter)(nil)

func NewMockPresenter() *MockPresenter {
	return &MockPresenter{Visible: true}
}

func (m *MockPresenter) SetBackground(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Background = url
}

func (m *MockPresenter) SetNarrative(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Narrative = text
}

func (m *MockPresenter) SetNPC(name, portrait string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NPCName = name
	m.Portrait = portrait
}

func (m *MockPresenter) SetHints(hints []scene.Hint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Hints = hints
}

func (m *MockPresenter) AppendChat(role, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Chat = append(m.Chat, ChatLine{Role: role, Message: message})
}

func (m *MockPresenter) ClearChat() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Chat = nil
	m.ChatClears++
}

func (m *MockPresenter) SetTyping(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Typing = active
}

func (m *MockPresenter) HideOverlays() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Visible = false
}

func (m *MockPresenter) ShowOverlays() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Visible = true
}

func (m *MockPresenter) FadeOut(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FadeOuts++
}

func (m *MockPresenter) FadeIn(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FadeIns++
}

func (m *MockPresenter) PlayVideo(ctx context.Context, url string, maxDuration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Videos = append(m.Videos, PlayedVideo{URL: url, MaxDuration: maxDuration})
}

func (m *MockPresenter) ShowError(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, message)
}

// ChatLines returns a copy of the recorded conversation.
func (m *MockPresenter) ChatLines() []ChatLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChatLine, len(m.Chat))
	copy(out, m.Chat)
	return out
}
