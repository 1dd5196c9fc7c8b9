package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lmarchand/givre/internal/catalog"
	"github.com/lmarchand/givre/internal/events"
	"github.com/lmarchand/givre/internal/gamestate"
	"github.com/lmarchand/givre/internal/session"
	"github.com/lmarchand/givre/pkg/prompts"
	"github.com/lmarchand/givre/pkg/scene"
)

// State is the engine lifecycle phase.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateIdle          State = "idle"
	StateAwaitingReply State = "awaiting_reply"
	StateTransitioning State = "transitioning"
	StateFailed        State = "failed"
)

// Display roles for conversation lines.
const (
	RoleUser = "user"
	RoleNPC  = "npc"
)

// FallbackApology is shown in place of an NPC reply when the relay call
// fails. The conversation stays open so the player can retry.
const FallbackApology = "I... seem to have lost my train of thought. Could you repeat that?"

// Localizer supplies translated scene text. The zero implementation keeps
// authored text and replies in English.
type Localizer interface {
	LanguageName() string
	NarrativeText(sceneID string) string
	Hints(sceneID string) []string
}

type nopLocalizer struct{}

func (nopLocalizer) LanguageName() string        { return "" }
func (nopLocalizer) NarrativeText(string) string { return "" }
func (nopLocalizer) Hints(string) []string       { return nil }

// Config tunes the engine's pacing. Zero values take the defaults.
type Config struct {
	// ReadDelay is how long a trigger reply stays on screen before the
	// scheduled transition starts.
	ReadDelay time.Duration
	// FadeDelay is the pause inserted when a scene has no transition video.
	FadeDelay time.Duration
}

const (
	defaultReadDelay = 1500 * time.Millisecond
	defaultFadeDelay = 500 * time.Millisecond
)

// Engine orchestrates the game loop: it loads scenes from the catalog,
// drives conversation turns through the session, mutates game state, and
// tells the presenter what to show. All entry points serialize on one
// mutex, so at most one turn or transition is in flight.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	catalog   *catalog.Catalog
	session   *session.Session
	state     *gamestate.Manager
	bus       *events.Bus
	presenter Presenter
	localizer Localizer
	logger    *slog.Logger

	st State

	// generation increments on every scene load. A scheduled transition
	// captures the value at scheduling time and is dropped if a newer load
	// happened before its timer fired.
	generation int
	pending    *time.Timer
}

func New(cfg Config, cat *catalog.Catalog, sess *session.Session, st *gamestate.Manager, bus *events.Bus, presenter Presenter, localizer Localizer, logger *slog.Logger) *Engine {
	if cfg.ReadDelay <= 0 {
		cfg.ReadDelay = defaultReadDelay
	}
	if cfg.FadeDelay <= 0 {
		cfg.FadeDelay = defaultFadeDelay
	}
	if localizer == nil {
		localizer = nopLocalizer{}
	}
	return &Engine{
		cfg:       cfg,
		catalog:   cat,
		session:   sess,
		state:     st,
		bus:       bus,
		presenter: presenter,
		localizer: localizer,
		logger:    logger,
		st:        StateUninitialized,
	}
}

// StartSceneID returns the catalog's start scene, or "" before the catalog
// loads.
func (e *Engine) StartSceneID() string {
	return e.catalog.StartID()
}

// State returns the current lifecycle phase.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st
}

// Initialize loads the scene catalog and enters the start scene (or the
// saved scene when resuming). Any failure here is unrecoverable and leaves
// the engine in StateFailed.
func (e *Engine) Initialize(ctx context.Context, src catalog.Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st != StateUninitialized {
		return fmt.Errorf("engine already initialized (state %s)", e.st)
	}
	e.st = StateInitializing

	if err := e.catalog.Load(ctx, src); err != nil {
		return e.failLocked("scene catalog load failed", err)
	}

	startID := e.catalog.StartID()
	if saved := e.state.CurrentSceneID(); saved != "" && e.catalog.Has(saved) {
		startID = saved
	}

	if err := e.loadSceneLocked(ctx, startID); err != nil {
		return e.failLocked("initial scene load failed", err)
	}
	return nil
}

// HandleUserMessage runs one conversation turn. It records the player's
// line, asks the NPC for a reply, and schedules a scene transition when the
// reply carries a trigger. Relay failures surface as an in-character
// apology and never abort the conversation.
func (e *Engine) HandleUserMessage(ctx context.Context, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st != StateIdle {
		return fmt.Errorf("engine not ready for input (state %s)", e.st)
	}

	e.state.AddConversationEntry(RoleUser, text)
	e.presenter.AppendChat(RoleUser, text)
	e.bus.Publish(events.ChatMessage{Role: RoleUser, Message: text})

	e.st = StateAwaitingReply
	e.setTypingLocked(true)
	defer e.setTypingLocked(false)

	reply, err := e.session.SendMessage(ctx, text)
	if err != nil {
		e.logger.Error("Conversation turn failed",
			"scene", e.state.CurrentSceneID(),
			"error", err)
		e.state.AddConversationEntry(RoleNPC, FallbackApology)
		e.presenter.AppendChat(RoleNPC, FallbackApology)
		e.bus.Publish(events.ChatMessage{Role: RoleNPC, Message: FallbackApology})
		e.st = StateIdle
		return nil
	}

	e.state.AddConversationEntry(RoleNPC, reply.Message)
	e.presenter.AppendChat(RoleNPC, reply.Message)
	e.bus.Publish(events.ChatMessage{Role: RoleNPC, Message: reply.Message})

	if reply.TriggerNextScene && reply.TargetSceneID != "" {
		e.scheduleTransitionLocked(reply.TargetSceneID)
	}

	e.st = StateIdle
	return nil
}

// LoadScene jumps straight to a scene with no departure effect. Used when
// restoring a save or restarting from the beginning.
func (e *Engine) LoadScene(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st != StateIdle {
		return fmt.Errorf("engine not ready for scene load (state %s)", e.st)
	}
	return e.loadSceneLocked(ctx, id)
}

// Close cancels any pending scheduled transition.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

// scheduleTransitionLocked arms a timer so the player can read the trigger
// reply before the scene changes. The captured generation guards against
// the timer firing after a newer scene load.
func (e *Engine) scheduleTransitionLocked(targetID string) {
	gen := e.generation
	e.logger.Info("Scene transition scheduled",
		"from", e.state.CurrentSceneID(),
		"to", targetID,
		"delay", e.cfg.ReadDelay)

	e.pending = time.AfterFunc(e.cfg.ReadDelay, func() {
		e.runScheduledTransition(gen, targetID)
	})
}

func (e *Engine) runScheduledTransition(gen int, targetID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		e.logger.Debug("Dropping stale scene transition",
			"to", targetID,
			"scheduled_generation", gen,
			"current_generation", e.generation)
		return
	}
	if e.st != StateIdle {
		e.logger.Debug("Dropping scene transition, engine busy",
			"to", targetID,
			"state", e.st)
		return
	}
	e.transitionLocked(context.Background(), targetID)
}

// transitionLocked plays the departure effect for the current scene and
// loads the target. An unknown target aborts the transition in place; the
// current scene stays playable.
func (e *Engine) transitionLocked(ctx context.Context, targetID string) {
	fromID := e.state.CurrentSceneID()

	if !e.catalog.Has(targetID) {
		e.logger.Error("Scene transition target not found",
			"from", fromID,
			"to", targetID)
		e.bus.Publish(events.Error{Message: "scene not found: " + targetID})
		return
	}

	e.st = StateTransitioning
	e.bus.Publish(events.SceneTransition{FromSceneID: fromID, ToSceneID: targetID})

	e.presenter.HideOverlays()

	cur, _ := e.catalog.Get(fromID)
	if cur != nil && cur.TransitionVideo != "" {
		maxDur := time.Duration(cur.TransitionDuration * float64(time.Second))
		e.presenter.PlayVideo(ctx, cur.TransitionVideo, maxDur)
	} else {
		e.presenter.FadeOut(ctx)
		time.Sleep(e.cfg.FadeDelay)
	}

	if err := e.loadSceneLocked(ctx, targetID); err != nil {
		// Target existence was checked above; a failure here means the
		// catalog changed underneath us. Stay on the old scene.
		e.logger.Error("Scene load failed during transition",
			"to", targetID,
			"error", err)
		e.bus.Publish(events.Error{Message: "scene load failed", Err: err})
		e.st = StateIdle
	}

	e.presenter.FadeIn(ctx)
	e.presenter.ShowOverlays()
}

// loadSceneLocked makes a scene current: it updates game state, pushes the
// scene's visuals and text to the presenter, resets the conversation
// session, prefetches likely next scenes, and requests the NPC greeting.
// On success the engine is Idle.
func (e *Engine) loadSceneLocked(ctx context.Context, id string) error {
	sc, ok := e.catalog.Get(id)
	if !ok {
		return fmt.Errorf("scene %q not found in catalog", id)
	}

	e.generation++
	e.bus.Publish(events.SceneLoading{SceneID: id})
	e.state.SetCurrentScene(id)

	e.presenter.SetBackground(sc.BackgroundImage)
	e.presenter.SetNarrative(e.narrativeFor(sc))
	e.presenter.SetNPC(sc.NPC.Name, sc.NPC.Portrait)
	e.presenter.SetHints(e.hintsFor(sc))
	e.presenter.ClearChat()

	e.session.InitForScene(sc, e.localizer.LanguageName())

	for _, next := range extractTriggerScenes(sc.NPC.SecretTriggers) {
		go e.catalog.PreloadAssets(context.Background(), next)
	}

	e.bus.Publish(events.SceneLoaded{SceneID: id})

	e.greetLocked(ctx, sc)
	e.st = StateIdle
	return nil
}

// greetLocked asks the NPC to open the conversation. A failed relay call
// falls back to a canned line so the scene always starts with a greeting.
func (e *Engine) greetLocked(ctx context.Context, sc *scene.Scene) {
	e.setTypingLocked(true)
	defer e.setTypingLocked(false)

	greeting := fmt.Sprintf("Welcome, traveler. I am %s.", sc.NPC.Name)
	reply, err := e.session.SendMessage(ctx, prompts.GreetingInstruction)
	if err != nil {
		e.logger.Warn("Greeting request failed, using fallback",
			"scene", sc.ID,
			"error", err)
	} else {
		greeting = reply.Message
	}

	e.presenter.AppendChat(RoleNPC, greeting)
	e.bus.Publish(events.ChatMessage{Role: RoleNPC, Message: greeting})
}

func (e *Engine) narrativeFor(sc *scene.Scene) string {
	if translated := e.localizer.NarrativeText(sc.ID); translated != "" {
		return translated
	}
	return sc.NarrativeText
}

// hintsFor overlays translated labels on the authored hints. Icons and any
// hints beyond the translated count keep their authored text.
func (e *Engine) hintsFor(sc *scene.Scene) []scene.Hint {
	hints := make([]scene.Hint, len(sc.Hints))
	copy(hints, sc.Hints)

	for i, label := range e.localizer.Hints(sc.ID) {
		if i >= len(hints) {
			break
		}
		hints[i].Label = label
	}
	return hints
}

func (e *Engine) setTypingLocked(active bool) {
	e.presenter.SetTyping(active)
	e.bus.Publish(events.Typing{Active: active})
}

func (e *Engine) failLocked(msg string, err error) error {
	e.st = StateFailed
	e.logger.Error(msg, "error", err)
	e.bus.Publish(events.Error{Message: msg, Err: err})
	e.presenter.ShowError(msg)
	return fmt.Errorf("%s: %w", msg, err)
}
