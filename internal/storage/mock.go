package storage

import (
	"context"
	"sync"

	"github.com/lmarchand/givre/pkg/state"
)

// MockStore is an in-memory Storage for tests, with error injection.
type MockStore struct {
	mu        sync.Mutex
	snapshots map[string]*state.Snapshot

	PingErr   error
	SaveErr   error
	LoadErr   error
	DeleteErr error
}

var _ Storage = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		snapshots: make(map[string]*state.Snapshot),
	}
}

func (m *MockStore) Ping(ctx context.Context) error { return m.PingErr }

func (m *MockStore) Close() error { return nil }

func (m *MockStore) SaveSnapshot(ctx context.Context, slot string, snap *state.Snapshot) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[slot] = snap
	return nil
}

func (m *MockStore) LoadSnapshot(ctx context.Context, slot string) (*state.Snapshot, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshots[slot], nil
}

func (m *MockStore) DeleteSnapshot(ctx context.Context, slot string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, slot)
	return nil
}
