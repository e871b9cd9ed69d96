package ports

import (
	"context"

	"freight-break-service/internal/domain"
)

// Port: a boundary for persisting and retrieving preprocessing outputs.
// Replace* methods overwrite any previous results for the same path, so
// re-running preprocessing is idempotent at the storage level.
type ResultStore interface {
	ReplaceBreaks(ctx context.Context, runID string, pathID string, breaks []domain.MandatoryBreak) error
	ReplaceFloors(ctx context.Context, runID string, pathID string, floors []domain.TravelTimeFloor) error

	ListBreaks(ctx context.Context, pathID string) ([]domain.MandatoryBreak, error)
	ListFloors(ctx context.Context, pathID string) ([]domain.TravelTimeFloor, error)
}
