package settings

import (
	"context"
	"maps"
	"sync"
)

var _ Backend = (*MemoryStore)(nil)

// MemoryStore keeps settings in a map.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates a store holding a copy of initial.
func NewMemoryStore(initial map[string]string) *MemoryStore {
	values := make(map[string]string, len(initial))
	maps.Copy(values, initial)
	return &MemoryStore{values: values}
}

func (m *MemoryStore) Get(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[name]
	if !ok {
		return "", ErrNotSet
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[name] = value
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, name)
	return nil
}

func (m *MemoryStore) List(_ context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return maps.Clone(m.values), nil
}

func (m *MemoryStore) Close() error { return nil }
