package repositories

import (
	"context"
	"sort"
	"sync"

	"freight-break-service/internal/domain"
)

// Map-backed implementation of the PathRepository port. Safe for concurrent
// use.
type MemoryPathRepository struct {
	mu    sync.RWMutex
	paths map[string]domain.PathRecord
}

func NewMemoryPathRepository(paths ...domain.PathRecord) *MemoryPathRepository {
	m := make(map[string]domain.PathRecord, len(paths))
	for _, p := range paths {
		m[p.PathID] = p.Clone()
	}
	return &MemoryPathRepository{paths: m}
}

func (r *MemoryPathRepository) ListPaths(ctx context.Context) ([]domain.PathRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.PathRecord, 0, len(r.paths))
	for _, p := range r.paths {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PathID < out[j].PathID })
	return out, nil
}

func (r *MemoryPathRepository) ReplacePath(ctx context.Context, p domain.PathRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.paths[p.PathID] = p.Clone()
	return nil
}

// Get returns the stored record for a path id, for test assertions.
func (r *MemoryPathRepository) Get(pathID string) (domain.PathRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.paths[pathID]
	if !ok {
		return domain.PathRecord{}, false
	}
	return p.Clone(), true
}
