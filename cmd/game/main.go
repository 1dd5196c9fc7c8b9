package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/lmarchand/givre/internal/catalog"
	"github.com/lmarchand/givre/internal/config"
	"github.com/lmarchand/givre/internal/engine"
	"github.com/lmarchand/givre/internal/events"
	"github.com/lmarchand/givre/internal/gamestate"
	"github.com/lmarchand/givre/internal/i18n"
	"github.com/lmarchand/givre/internal/relay"
	"github.com/lmarchand/givre/internal/session"
	"github.com/lmarchand/givre/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Stdout belongs to the TUI; logs go to a file when one can be opened.
	log := fileLogger(cfg)

	client := relay.NewClient(cfg.RelayURL, log)
	healthCtx, healthCancel := context.WithTimeout(context.Background(), 5*time.Second)
	healthy := client.Healthy(healthCtx)
	healthCancel()
	if !healthy {
		fmt.Fprintf(os.Stderr, "Could not reach the relay at %s. Please ensure the API is running.\nTry: docker-compose up -d\n", cfg.RelayURL)
		os.Exit(1)
	}

	i18nSvc := i18n.New(log)
	if err := i18nSvc.Load(cfg.TranslationsPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load translations: %v\n", err)
		os.Exit(1)
	}
	if err := i18nSvc.SetLanguage(cfg.Language); err != nil {
		log.Warn("Unknown language, staying on default", "language", cfg.Language)
	}

	bus := events.NewBus(log)
	cat := catalog.New(nil, log)
	sess := session.New(client, log)
	store := storage.NewFileStore(cfg.SaveDir, log)
	manager := gamestate.NewManager(store, bus, log, gamestate.DefaultSlot)

	presenter := NewProgramPresenter()
	eng := engine.New(engine.Config{}, cat, sess, manager, bus, presenter, i18nSvc, log)
	defer eng.Close()

	ui := NewGameUI(eng, manager, presenter, i18nSvc)
	p := tea.NewProgram(ui,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	presenter.Attach(func(msg interface{}) { p.Send(msg) })

	// The engine starts up concurrently with the UI; its presenter calls
	// arrive as program messages.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		err := eng.Initialize(ctx, catalog.FileSource{Path: cfg.ScenesPath})
		p.Send(engineReadyMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func fileLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	f, err := os.OpenFile("game.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, opts))
	}
	return slog.New(slog.NewTextHandler(f, opts))
}
