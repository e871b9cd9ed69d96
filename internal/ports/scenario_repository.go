package ports

import (
	"context"

	"freight-break-service/internal/domain"
)

// Port: a boundary for the scenario collaborator that supplies fleet sizing
// parameters and transported flow volumes.
type ScenarioRepository interface {
	// Retrieve fleet sizing parameters keyed by (year, technology, generation).
	ListFleetParams(ctx context.Context) (map[domain.FleetKey]domain.FleetParams, error)

	// Retrieve all flow volume records.
	ListFlows(ctx context.Context) ([]domain.FlowRecord, error)
}
