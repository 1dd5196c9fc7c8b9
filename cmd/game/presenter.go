package main

import (
	"context"
	"time"

	"github.com/lmarchand/givre/internal/engine"
	"github.com/lmarchand/givre/pkg/scene"
)

// Messages the presenter pushes into the bubbletea program.

type backgroundMsg struct{ url string }

type narrativeMsg struct{ text string }

type npcMsg struct {
	name     string
	portrait string
}

type hintsMsg struct{ hints []scene.Hint }

type chatAppendMsg struct {
	role    string
	message string
}

type chatClearMsg struct{}

type typingMsg struct{ active bool }

type overlaysMsg struct{ visible bool }

type videoMsg struct {
	url    string
	active bool
}

type fadeMsg struct{ faded bool }

type errorBannerMsg struct{ message string }

type engineReadyMsg struct{ err error }

const defaultVideoLength = 3 * time.Second

// ProgramPresenter adapts the engine's presentation calls to bubbletea
// messages. The engine calls it from its own goroutine; Send is safe for
// concurrent use.
type ProgramPresenter struct {
	send func(msg interface{})
	skip chan struct{}
}

var _ engine.Presenter = (*ProgramPresenter)(nil)

func NewProgramPresenter() *ProgramPresenter {
	return &ProgramPresenter{
		send: func(interface{}) {},
		skip: make(chan struct{}, 1),
	}
}

// Attach binds the presenter to a running program's Send function.
func (p *ProgramPresenter) Attach(send func(msg interface{})) {
	p.send = send
}

// Skip requests that the current transition video end early.
func (p *ProgramPresenter) Skip() {
	select {
	case p.skip <- struct{}{}:
	default:
	}
}

func (p *ProgramPresenter) SetBackground(url string) {
	p.send(backgroundMsg{url: url})
}

func (p *ProgramPresenter) SetNarrative(text string) {
	p.send(narrativeMsg{text: text})
}

func (p *ProgramPresenter) SetNPC(name, portrait string) {
	p.send(npcMsg{name: name, portrait: portrait})
}

func (p *ProgramPresenter) SetHints(hints []scene.Hint) {
	p.send(hintsMsg{hints: hints})
}

func (p *ProgramPresenter) AppendChat(role, message string) {
	p.send(chatAppendMsg{role: role, message: message})
}

func (p *ProgramPresenter) ClearChat() {
	p.send(chatClearMsg{})
}

func (p *ProgramPresenter) SetTyping(active bool) {
	p.send(typingMsg{active: active})
}

func (p *ProgramPresenter) HideOverlays() {
	p.send(overlaysMsg{visible: false})
}

func (p *ProgramPresenter) ShowOverlays() {
	p.send(overlaysMsg{visible: true})
}

func (p *ProgramPresenter) FadeOut(ctx context.Context) {
	p.send(fadeMsg{faded: true})
	p.wait(ctx, 400*time.Millisecond)
}

func (p *ProgramPresenter) FadeIn(ctx context.Context) {
	p.send(fadeMsg{faded: false})
	p.wait(ctx, 400*time.Millisecond)
}

// PlayVideo shows the video banner until the clip "ends", the duration cap
// is reached, or the player skips.
func (p *ProgramPresenter) PlayVideo(ctx context.Context, url string, maxDuration time.Duration) {
	length := defaultVideoLength
	if maxDuration > 0 && maxDuration < length {
		length = maxDuration
	}

	// Drain a stale skip from a previous video.
	select {
	case <-p.skip:
	default:
	}

	p.send(videoMsg{url: url, active: true})
	select {
	case <-time.After(length):
	case <-p.skip:
	case <-ctx.Done():
	}
	p.send(videoMsg{active: false})
}

func (p *ProgramPresenter) ShowError(message string) {
	p.send(errorBannerMsg{message: message})
}

func (p *ProgramPresenter) wait(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
