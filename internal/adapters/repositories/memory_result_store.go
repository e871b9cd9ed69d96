package repositories

import (
	"context"
	"sync"

	"freight-break-service/internal/domain"
)

// Map-backed implementation of the ResultStore port. Safe for concurrent use;
// the pipeline writes results for many paths at once.
type MemoryResultStore struct {
	mu     sync.RWMutex
	breaks map[string][]domain.MandatoryBreak
	floors map[string][]domain.TravelTimeFloor
	runs   map[string]string
}

func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{
		breaks: make(map[string][]domain.MandatoryBreak),
		floors: make(map[string][]domain.TravelTimeFloor),
		runs:   make(map[string]string),
	}
}

func (s *MemoryResultStore) ReplaceBreaks(ctx context.Context, runID, pathID string, breaks []domain.MandatoryBreak) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.breaks[pathID] = append([]domain.MandatoryBreak(nil), breaks...)
	s.runs[pathID] = runID
	return nil
}

func (s *MemoryResultStore) ReplaceFloors(ctx context.Context, runID, pathID string, floors []domain.TravelTimeFloor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.floors[pathID] = append([]domain.TravelTimeFloor(nil), floors...)
	s.runs[pathID] = runID
	return nil
}

func (s *MemoryResultStore) ListBreaks(ctx context.Context, pathID string) ([]domain.MandatoryBreak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.MandatoryBreak(nil), s.breaks[pathID]...), nil
}

func (s *MemoryResultStore) ListFloors(ctx context.Context, pathID string) ([]domain.TravelTimeFloor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.TravelTimeFloor(nil), s.floors[pathID]...), nil
}

// RunID returns the run that last wrote results for a path, for test
// assertions.
func (s *MemoryResultStore) RunID(pathID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.runs[pathID]
}
