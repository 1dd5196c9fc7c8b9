package engine

import (
	"context"
	"time"

	"github.com/lmarchand/givre/pkg/scene"
)

// Presenter is the presentation surface the engine drives. Implementations
// render however they like (browser DOM, terminal UI); blocking methods are
// the engine's suspension points and must respect the context.
type Presenter interface {
	SetBackground(url string)
	SetNarrative(text string)
	SetNPC(name, portrait string)
	SetHints(hints []scene.Hint)

	AppendChat(role, message string)
	ClearChat()
	SetTyping(active bool)

	// HideOverlays conceals narrative, chat, and hints during a transition;
	// ShowOverlays restores them.
	HideOverlays()
	ShowOverlays()

	// FadeOut and FadeIn block until the visual effect completes.
	FadeOut(ctx context.Context)
	FadeIn(ctx context.Context)

	// PlayVideo blocks until the video ends, is skipped, or maxDuration
	// elapses. maxDuration of zero means natural length.
	PlayVideo(ctx context.Context, url string, maxDuration time.Duration)

	ShowError(message string)
}
