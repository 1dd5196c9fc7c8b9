package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/lmarchand/givre/pkg/scene"
)

// Catalog owns the static graph of authored scenes. It is loaded once at
// startup and replaced atomically: a failed load leaves the previously
// installed catalog untouched.
type Catalog struct {
	mu         sync.RWMutex
	scenes     map[string]scene.Scene
	startID    string
	loaded     bool
	prefetcher AssetPrefetcher
	logger     *slog.Logger
}

func New(prefetcher AssetPrefetcher, logger *slog.Logger) *Catalog {
	if prefetcher == nil {
		prefetcher = NopPrefetcher{}
	}
	return &Catalog{
		scenes:     make(map[string]scene.Scene),
		prefetcher: prefetcher,
		logger:     logger,
	}
}

// Load fetches a scene document from the source, validates it, and installs
// it as the active catalog. All-or-nothing: any fetch, parse, or validation
// failure aborts the load without installing a partial catalog.
func (c *Catalog) Load(ctx context.Context, src Source) error {
	data, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch scene document: %w", err)
	}

	var doc scene.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse scene document: %w", err)
	}

	if err := doc.Validate(); err != nil {
		return fmt.Errorf("scene document failed validation: %w", err)
	}

	scenes := make(map[string]scene.Scene, len(doc.Scenes))
	for id, s := range doc.Scenes {
		s.ID = id
		scenes[id] = s
	}

	c.mu.Lock()
	c.scenes = scenes
	c.startID = doc.StartScene
	c.loaded = true
	c.mu.Unlock()

	c.logger.Info("Scene catalog loaded",
		"scenes", len(scenes),
		"start_scene", doc.StartScene)
	return nil
}

// Get returns the scene for the id. Callers must handle the not-found case;
// unknown transition targets are reported, never fatal.
func (c *Catalog) Get(id string) (*scene.Scene, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.scenes[id]
	if !ok {
		return nil, false
	}
	return &s, true
}

// StartID returns the designated start scene id.
func (c *Catalog) StartID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startID
}

// ListIDs returns all scene ids in sorted order.
func (c *Catalog) ListIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.scenes))
	for id := range c.scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Catalog) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.scenes[id]
	return ok
}

// Loaded reports whether a catalog has been installed.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// PreloadAssets warms the scene's background, portrait, and transition
// video. Best-effort: failures are logged and swallowed, never returned.
func (c *Catalog) PreloadAssets(ctx context.Context, id string) {
	s, ok := c.Get(id)
	if !ok {
		return
	}

	assets := []string{s.BackgroundImage, s.NPC.Portrait, s.TransitionVideo}
	for _, asset := range assets {
		if asset == "" {
			continue
		}
		if err := c.prefetcher.Prefetch(ctx, asset); err != nil {
			c.logger.Debug("Asset prefetch failed", "scene", id, "asset", asset, "error", err)
		}
	}
}
