package ports

import (
	"context"

	"freight-break-service/internal/domain"
)

// Port: a boundary for retrieving and rewriting PathRecord entities.
type PathRepository interface {
	// Retrieve all paths available for preprocessing, ordered by path id.
	ListPaths(ctx context.Context) ([]domain.PathRecord, error)

	// Replace a stored path with its augmented form. Downstream consumers
	// must only ever observe the old record or the new one, never a mix.
	ReplacePath(ctx context.Context, p domain.PathRecord) error
}
