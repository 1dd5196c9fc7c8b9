package events

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func TestBus_DeliveryOrder(t *testing.T) {
	bus := NewBus(testLogger())

	var order []int
	bus.Subscribe(KindChatMessage, func(Event) { order = append(order, 1) })
	bus.Subscribe(KindChatMessage, func(Event) { order = append(order, 2) })
	bus.Subscribe(KindChatMessage, func(Event) { order = append(order, 3) })

	bus.Publish(ChatMessage{Role: "user", Message: "hello"})
	assert.Equal(t, []int{1, 2, 3}, order, "delivery follows registration order")
}

func TestBus_KindFiltering(t *testing.T) {
	bus := NewBus(testLogger())

	var loaded, typing int
	bus.Subscribe(KindSceneLoaded, func(e Event) {
		loaded++
		assert.Equal(t, "intro", e.(SceneLoaded).SceneID)
	})
	bus.Subscribe(KindTyping, func(Event) { typing++ })

	bus.Publish(SceneLoaded{SceneID: "intro"})
	bus.Publish(SceneLoaded{SceneID: "intro"})

	assert.Equal(t, 2, loaded)
	assert.Zero(t, typing, "subscribers only see their kind")
}

func TestBus_PanicIsolation(t *testing.T) {
	bus := NewBus(testLogger())

	var after bool
	bus.Subscribe(KindError, func(Event) { panic("subscriber bug") })
	bus.Subscribe(KindError, func(Event) { after = true })

	assert.NotPanics(t, func() {
		bus.Publish(Error{Message: "boom"})
	})
	assert.True(t, after, "a panicking subscriber must not block later ones")
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(testLogger())

	var calls int
	unsubscribe := bus.Subscribe(KindStateUpdated, func(Event) { calls++ })

	bus.Publish(StateUpdated{})
	unsubscribe()
	bus.Publish(StateUpdated{})

	assert.Equal(t, 1, calls)
}

func TestBus_Clear(t *testing.T) {
	bus := NewBus(testLogger())

	var calls int
	bus.Subscribe(KindStateUpdated, func(Event) { calls++ })
	bus.Clear()
	bus.Publish(StateUpdated{})

	assert.Zero(t, calls)
}
