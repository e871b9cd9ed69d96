package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"freight-break-service/internal/domain"
)

// DefaultPlanTTL bounds how long a cached plan may be served. Keys embed a
// fingerprint of the path, so the TTL only reclaims memory; it is not what
// keeps entries correct.
const DefaultPlanTTL = 24 * time.Hour

// RedisPlanCache is a Redis-backed implementation of the PlanCache port.
// Plans are stored msgpack-encoded under their PlanKey.
type RedisPlanCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPlanCache(client *redis.Client, ttl time.Duration) *RedisPlanCache {
	if ttl <= 0 {
		ttl = DefaultPlanTTL
	}
	return &RedisPlanCache{Client: client, TTL: ttl}
}

// Fetch a cached plan. A missing key is a plain miss; an unreadable or
// undecodable entry is reported as an error so the caller can recompute.
func (c *RedisPlanCache) GetPlan(ctx context.Context, path domain.PathRecord, speedKmh float64, policy string) (domain.PathPlan, bool, error) {
	if c.Client == nil {
		return domain.PathPlan{}, false, errors.New("plan cache: redis client is nil")
	}

	key := PlanKey(path, speedKmh, policy)
	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PathPlan{}, false, nil
	}
	if err != nil {
		return domain.PathPlan{}, false, fmt.Errorf("get plan %q: %w", key, err)
	}

	var plan domain.PathPlan
	if err := msgpack.Unmarshal(raw, &plan); err != nil {
		return domain.PathPlan{}, false, fmt.Errorf("get plan %q: decode payload: %w", key, err)
	}
	return plan, true, nil
}

// Store a computed plan under the path's fingerprint key.
func (c *RedisPlanCache) PutPlan(ctx context.Context, path domain.PathRecord, speedKmh float64, policy string, plan domain.PathPlan) error {
	if c.Client == nil {
		return errors.New("plan cache: redis client is nil")
	}

	raw, err := msgpack.Marshal(plan)
	if err != nil {
		return fmt.Errorf("put plan: encode payload: %w", err)
	}

	key := PlanKey(path, speedKmh, policy)
	if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put plan %q: %w", key, err)
	}
	return nil
}
