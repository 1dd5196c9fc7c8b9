package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Source supplies the raw scene document bytes.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads a scene document from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", s.Path, err)
	}
	return data, nil
}

// HTTPSource fetches a scene document over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", s.URL, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// AssetPrefetcher warms an asset reference ahead of use. Implementations
// are an optimization only; callers ignore failures.
type AssetPrefetcher interface {
	Prefetch(ctx context.Context, url string) error
}

// HTTPPrefetcher fetches assets over HTTP and discards the body, hinting
// any intermediate cache.
type HTTPPrefetcher struct {
	Client *http.Client
}

func (p HTTPPrefetcher) Prefetch(ctx context.Context, url string) error {
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	_, err = io.Copy(io.Discard, resp.Body)
	return err
}

// NopPrefetcher skips prefetching entirely.
type NopPrefetcher struct{}

func (NopPrefetcher) Prefetch(ctx context.Context, url string) error { return nil }
