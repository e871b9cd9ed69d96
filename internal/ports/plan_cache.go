package ports

import (
	"context"

	"freight-break-service/internal/domain"
)

// Port: an optional cache for computed per-path plans. Implementations key on
// the path's distance fingerprint plus the planning parameters, so a stale
// entry can never be returned for an edited path. A nil PlanCache is valid
// and means "always recompute".
type PlanCache interface {
	// Fetch a cached plan. The boolean reports a hit; an error means the
	// cache itself failed, which callers treat as a miss.
	GetPlan(ctx context.Context, path domain.PathRecord, speedKmh float64, policy string) (domain.PathPlan, bool, error)

	// Store a computed plan.
	PutPlan(ctx context.Context, path domain.PathRecord, speedKmh float64, policy string, plan domain.PathPlan) error
}
