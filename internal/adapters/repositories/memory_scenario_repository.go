package repositories

import (
	"context"

	"freight-break-service/internal/domain"
)

// Map-backed implementation of the ScenarioRepository port. The data is fixed
// at construction; scenario inputs never change during a run.
type MemoryScenarioRepository struct {
	fleet map[domain.FleetKey]domain.FleetParams
	flows []domain.FlowRecord
}

func NewMemoryScenarioRepository(fleet map[domain.FleetKey]domain.FleetParams, flows []domain.FlowRecord) *MemoryScenarioRepository {
	f := make(map[domain.FleetKey]domain.FleetParams, len(fleet))
	for k, v := range fleet {
		f[k] = v
	}
	return &MemoryScenarioRepository{
		fleet: f,
		flows: append([]domain.FlowRecord(nil), flows...),
	}
}

func (r *MemoryScenarioRepository) ListFleetParams(ctx context.Context) (map[domain.FleetKey]domain.FleetParams, error) {
	out := make(map[domain.FleetKey]domain.FleetParams, len(r.fleet))
	for k, v := range r.fleet {
		out[k] = v
	}
	return out, nil
}

func (r *MemoryScenarioRepository) ListFlows(ctx context.Context) ([]domain.FlowRecord, error) {
	return append([]domain.FlowRecord(nil), r.flows...), nil
}
