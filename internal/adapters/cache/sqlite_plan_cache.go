package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"freight-break-service/internal/domain"
)

// SQLite backed cache for computed per-path plans, so plans survive restarts
// of a local run. Entries persist until overwritten; the fingerprint in the
// key is what keeps them correct, not an expiry.
type SqlitePlanCache struct {
	DB *sql.DB
}

func NewSqlitePlanCache(db *sql.DB) *SqlitePlanCache {
	return &SqlitePlanCache{DB: db}
}

// Fetch a cached plan by the path's fingerprint key.
func (s *SqlitePlanCache) GetPlan(ctx context.Context, path domain.PathRecord, speedKmh float64, policy string) (domain.PathPlan, bool, error) {
	if s.DB == nil {
		return domain.PathPlan{}, false, errors.New("plan cache: db is nil")
	}

	key := PlanKey(path, speedKmh, policy)

	var raw []byte
	err := s.DB.QueryRowContext(ctx, `
	SELECT plan
	FROM plan_cache
	WHERE cache_key = ?;
	`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
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
func (s *SqlitePlanCache) PutPlan(ctx context.Context, path domain.PathRecord, speedKmh float64, policy string, plan domain.PathPlan) error {
	if s.DB == nil {
		return errors.New("plan cache: db is nil")
	}

	raw, err := msgpack.Marshal(plan)
	if err != nil {
		return fmt.Errorf("insert plan cache: encode payload: %w", err)
	}

	key := PlanKey(path, speedKmh, policy)
	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO plan_cache (cache_key, plan)
	VALUES (?, ?);
	`, key, raw)
	if err != nil {
		return fmt.Errorf("insert plan cache %q: %w", key, err)
	}

	return nil
}
