package events

import (
	"log/slog"
	"sync"
)

// Kind identifies the type of a game event.
type Kind string

const (
	KindSceneLoading    Kind = "scene.loading"
	KindSceneLoaded     Kind = "scene.loaded"
	KindSceneTransition Kind = "scene.transition"
	KindChatMessage     Kind = "chat.message"
	KindTyping          Kind = "chat.typing"
	KindStateUpdated    Kind = "state.updated"
	KindError           Kind = "error"
)

// Event is a tagged payload delivered through the bus. Each kind carries a
// fixed payload shape.
type Event interface {
	Kind() Kind
}

// SceneLoading announces that a scene load has begun.
type SceneLoading struct {
	SceneID string
}

func (SceneLoading) Kind() Kind { return KindSceneLoading }

// SceneLoaded announces that a scene finished loading.
type SceneLoaded struct {
	SceneID string
}

func (SceneLoaded) Kind() Kind { return KindSceneLoaded }

// SceneTransition announces a transition between two scenes.
type SceneTransition struct {
	FromSceneID string
	ToSceneID   string
}

func (SceneTransition) Kind() Kind { return KindSceneTransition }

// ChatMessage announces a displayed conversation line.
type ChatMessage struct {
	Role    string // "user" or "npc"
	Message string
}

func (ChatMessage) Kind() Kind { return KindChatMessage }

// Typing announces a typing indicator change.
type Typing struct {
	Active bool
}

func (Typing) Kind() Kind { return KindTyping }

// StateUpdated announces a game state mutation.
type StateUpdated struct{}

func (StateUpdated) Kind() Kind { return KindStateUpdated }

// Error announces a reported failure.
type Error struct {
	Message string
	Err     error
}

func (Error) Kind() Kind { return KindError }

// Handler receives published events.
type Handler func(Event)

type subscriber struct {
	id      int
	kind    Kind
	handler Handler
}

// Bus is a synchronous publish/subscribe channel. Publish delivers to the
// subscribers registered at the time of emission, in registration order, on
// the publishing goroutine. A subscriber that panics is logged and isolated
// from the rest.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers a handler for one event kind and returns an
// unsubscribe function.
func (b *Bus) Subscribe(kind Kind, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber{id: id, kind: kind, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to all current subscribers of its kind.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	matched := make([]subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kind == event.Kind() {
			matched = append(matched, s)
		}
	}
	b.mu.Unlock()

	for _, s := range matched {
		b.deliver(s, event)
	}
}

func (b *Bus) deliver(s subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event subscriber panicked",
				"kind", event.Kind(),
				"panic", r)
		}
	}()
	s.handler(event)
}

// Clear removes all subscribers.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
}
