package chartstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dusk-indust/chartaxis/internal/chart"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using a Go map. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu     sync.RWMutex
	charts map[string]*chart.Config
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{charts: make(map[string]*chart.Config)}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

func (m *MemStore) Put(_ context.Context, cfg *chart.Config) (*chart.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rev int64 = 1
	if prev, ok := m.charts[cfg.ID]; ok {
		rev = prev.Revision + 1
	}
	stored, err := prepare(cfg, rev)
	if err != nil {
		return nil, fmt.Errorf("memstore: put %s: %w", cfg.ID, err)
	}
	m.charts[cfg.ID] = stored
	return stored.Clone(), nil
}

func (m *MemStore) Get(_ context.Context, id string) (*chart.Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.charts[id]
	if !ok {
		return nil, fmt.Errorf("memstore: get %s: %w", id, ErrNotFound)
	}
	return cfg.Clone(), nil
}

func (m *MemStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.charts))
	for id := range m.charts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *MemStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.charts[id]; !ok {
		return fmt.Errorf("memstore: delete %s: %w", id, ErrNotFound)
	}
	delete(m.charts, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
