package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

type bytesSource []byte

func (s bytesSource) Fetch(ctx context.Context) ([]byte, error) { return s, nil }

type failingSource struct{ err error }

func (s failingSource) Fetch(ctx context.Context) ([]byte, error) { return nil, s.err }

type recordingPrefetcher struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (p *recordingPrefetcher) Prefetch(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = append(p.urls, url)
	return p.err
}

const validDoc = `{
	"start_scene": "intro",
	"scenes": {
		"intro": {
			"background_image": "bg/intro.jpg",
			"narrative_text": "Snow falls over the clock tower.",
			"npc": {
				"name": "Odile",
				"portrait": "portraits/odile.png",
				"system_prompt": "A guarded clockmaker."
			},
			"transition_video": "video/intro_out.mp4"
		},
		"reveal": {
			"background_image": "bg/reveal.jpg",
			"narrative_text": "The workshop door stands open.",
			"npc": {
				"name": "Odile",
				"system_prompt": "The clockmaker, unmasked."
			}
		}
	}
}`

func TestCatalog_Load(t *testing.T) {
	c := New(nil, testLogger())
	require.NoError(t, c.Load(context.Background(), bytesSource(validDoc)))

	assert.True(t, c.Loaded())
	assert.Equal(t, "intro", c.StartID())
	assert.Equal(t, []string{"intro", "reveal"}, c.ListIDs())
	assert.True(t, c.Has("reveal"))
	assert.False(t, c.Has("workshop"))

	// Each scene's id field matches its lookup key.
	for _, id := range c.ListIDs() {
		s, ok := c.Get(id)
		require.True(t, ok)
		assert.Equal(t, id, s.ID)
	}

	_, ok := c.Get("workshop")
	assert.False(t, ok, "unknown id must be reported, not invented")
}

func TestCatalog_LoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		src     Source
		wantErr string
	}{
		{
			name:    "fetch error",
			src:     failingSource{err: errors.New("connection refused")},
			wantErr: "failed to fetch scene document",
		},
		{
			name:    "invalid json",
			src:     bytesSource(`{"scenes": not-json`),
			wantErr: "failed to parse scene document",
		},
		{
			name:    "start scene missing from map",
			src:     bytesSource(`{"start_scene":"nowhere","scenes":{"intro":{"background_image":"b","narrative_text":"n","npc":{"name":"O","system_prompt":"p"}}}}`),
			wantErr: "failed validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil, testLogger())
			err := c.Load(context.Background(), tt.src)
			require.ErrorContains(t, err, tt.wantErr)

			// A failed first load leaves the catalog empty and unusable.
			assert.False(t, c.Loaded())
			assert.Empty(t, c.ListIDs())
			assert.False(t, c.Has("intro"))
		})
	}
}

func TestCatalog_FailedReloadKeepsPrevious(t *testing.T) {
	c := New(nil, testLogger())
	require.NoError(t, c.Load(context.Background(), bytesSource(validDoc)))

	err := c.Load(context.Background(), bytesSource(`{"scenes":{}}`))
	require.Error(t, err)

	assert.True(t, c.Loaded())
	assert.True(t, c.Has("intro"), "failed reload must not clobber the installed catalog")
	assert.Equal(t, "intro", c.StartID())
}

func TestCatalog_PreloadAssets(t *testing.T) {
	p := &recordingPrefetcher{}
	c := New(p, testLogger())
	require.NoError(t, c.Load(context.Background(), bytesSource(validDoc)))

	c.PreloadAssets(context.Background(), "intro")
	assert.Equal(t, []string{"bg/intro.jpg", "portraits/odile.png", "video/intro_out.mp4"}, p.urls)

	// Scenes without optional assets only warm what exists.
	p.urls = nil
	c.PreloadAssets(context.Background(), "reveal")
	assert.Equal(t, []string{"bg/reveal.jpg"}, p.urls)

	// Unknown scene and prefetch failures are both silent.
	p.urls = nil
	c.PreloadAssets(context.Background(), "workshop")
	assert.Empty(t, p.urls)

	p.err = errors.New("404")
	assert.NotPanics(t, func() {
		c.PreloadAssets(context.Background(), "intro")
	})
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenes.json")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	data, err := FileSource{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, validDoc, string(data))

	_, err = FileSource{Path: filepath.Join(dir, "missing.json")}.Fetch(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/scenes.json" {
			_, _ = w.Write([]byte(validDoc))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	data, err := HTTPSource{URL: srv.URL + "/scenes.json"}.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, validDoc, string(data))

	_, err = HTTPSource{URL: srv.URL + "/missing.json"}.Fetch(context.Background())
	assert.ErrorContains(t, err, "status 404")
}
