package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"freight-break-service/internal/domain"
	"freight-break-service/internal/platform/obs"
)

// SQLPlanCache is a Postgres-backed implementation of the PlanCache port.
// Shared between service instances, unlike the per-process SQLite flavor.
type SQLPlanCache struct {
	DB *sql.DB
}

func NewSQLPlanCache(db *sql.DB) *SQLPlanCache {
	return &SQLPlanCache{DB: db}
}

// Fetch a cached plan by the path's fingerprint key.
func (s *SQLPlanCache) GetPlan(ctx context.Context, path domain.PathRecord, speedKmh float64, policy string) (_ domain.PathPlan, _ bool, err error) {
	defer obs.Time(ctx, "plans.cache.GetPlan")(&err)

	if s.DB == nil {
		return domain.PathPlan{}, false, errors.New("plan cache: db is nil")
	}

	key := PlanKey(path, speedKmh, policy)

	var raw []byte
	err = s.DB.QueryRowContext(ctx, `
	SELECT plan
	FROM plan_cache
	WHERE cache_key = $1;
	`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return domain.PathPlan{}, false, nil
	}
	if err != nil {
		return domain.PathPlan{}, false, fmt.Errorf("get plan cache %q: query plan_cache table: %w", key, err)
	}

	var plan domain.PathPlan
	if err := msgpack.Unmarshal(raw, &plan); err != nil {
		return domain.PathPlan{}, false, fmt.Errorf("get plan cache %q: decode payload: %w", key, err)
	}
	return plan, true, nil
}

// Store a computed plan under the path's fingerprint key.
func (s *SQLPlanCache) PutPlan(ctx context.Context, path domain.PathRecord, speedKmh float64, policy string, plan domain.PathPlan) error {
	if s.DB == nil {
		return errors.New("plan cache: db is nil")
	}

	raw, err := msgpack.Marshal(plan)
	if err != nil {
		return fmt.Errorf("insert plan cache: encode payload: %w", err)
	}

	key := PlanKey(path, speedKmh, policy)
	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO plan_cache (cache_key, plan)
	VALUES ($1, $2)
	ON CONFLICT (cache_key) DO UPDATE
	SET plan = EXCLUDED.plan;
	`, key, raw)
	if err != nil {
		return fmt.Errorf("insert plan cache %q: %w", key, err)
	}

	return nil
}
