package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmarchand/givre/pkg/state"
)

// FileStore implements Storage over a local directory, one JSON file per
// slot. This is the single-player save backend used by the console client.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

var _ Storage = (*FileStore)(nil)

func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	return &FileStore{
		dir:    dir,
		logger: logger,
	}
}

func (f *FileStore) Ping(ctx context.Context) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("save directory unavailable: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) slotPath(slot string) string {
	return filepath.Join(f.dir, slot+".json")
}

func (f *FileStore) SaveSnapshot(ctx context.Context, slot string, snap *state.Snapshot) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(f.slotPath(slot), data, 0o644); err != nil {
		f.logger.Error("Failed to write save file", "slot", slot, "error", err)
		return fmt.Errorf("failed to write save file: %w", err)
	}

	return nil
}

func (f *FileStore) LoadSnapshot(ctx context.Context, slot string) (*state.Snapshot, error) {
	data, err := os.ReadFile(f.slotPath(slot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}

	var snap state.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse save file: %w", err)
	}

	return &snap, nil
}

func (f *FileStore) DeleteSnapshot(ctx context.Context, slot string) error {
	if err := os.Remove(f.slotPath(slot)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete save file: %w", err)
	}
	return nil
}
