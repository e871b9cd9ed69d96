package cache

import (
	"context"
	"sync"

	"freight-break-service/internal/domain"
)

// Map-backed implementation of the PlanCache port for tests and single
// process deployments. Safe for concurrent use.
type MemoryPlanCache struct {
	mu    sync.RWMutex
	plans map[string]domain.PathPlan
}

func NewMemoryPlanCache() *MemoryPlanCache {
	return &MemoryPlanCache{plans: make(map[string]domain.PathPlan)}
}

func (c *MemoryPlanCache) GetPlan(ctx context.Context, path domain.PathRecord, speedKmh float64, policy string) (domain.PathPlan, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	plan, ok := c.plans[PlanKey(path, speedKmh, policy)]
	if !ok {
		return domain.PathPlan{}, false, nil
	}
	return clonePlan(plan), true, nil
}

func (c *MemoryPlanCache) PutPlan(ctx context.Context, path domain.PathRecord, speedKmh float64, policy string, plan domain.PathPlan) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.plans[PlanKey(path, speedKmh, policy)] = clonePlan(plan)
	return nil
}

// Len reports the number of cached plans, for test assertions.
func (c *MemoryPlanCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.plans)
}

func clonePlan(plan domain.PathPlan) domain.PathPlan {
	return domain.PathPlan{
		Path:   plan.Path.Clone(),
		Breaks: append([]domain.MandatoryBreak(nil), plan.Breaks...),
	}
}
