package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hdelarosa/expediente-engine/internal/common"
	"github.com/hdelarosa/expediente-engine/internal/entity"
)

// MemoryCatalog is an in-memory CatalogRepository for tests and for
// deployments that preload the catalog at startup.
type MemoryCatalog struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entity.CatalogEntry
}

func NewMemoryCatalog(entries []entity.CatalogEntry) *MemoryCatalog {
	m := &MemoryCatalog{entries: make(map[uuid.UUID]entity.CatalogEntry, len(entries))}
	for _, e := range entries {
		m.entries[e.ID] = e
	}
	return m
}

func (m *MemoryCatalog) ListActive(_ context.Context) ([]entity.CatalogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []entity.CatalogEntry
	for _, e := range m.entries {
		if e.Active {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryCatalog) FindByID(_ context.Context, id uuid.UUID) (*entity.CatalogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &e, nil
}

// MemoryCampus is an in-memory CampusRepository.
type MemoryCampus struct {
	mu       sync.RWMutex
	campuses map[uuid.UUID]entity.Campus
}

func NewMemoryCampus(campuses []entity.Campus) *MemoryCampus {
	m := &MemoryCampus{campuses: make(map[uuid.UUID]entity.Campus, len(campuses))}
	for _, c := range campuses {
		m.campuses[c.ID] = c
	}
	return m
}

func (m *MemoryCampus) FindByID(_ context.Context, id uuid.UUID) (*entity.Campus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.campuses[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}
