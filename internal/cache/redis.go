package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})
}

const statsKey = "admin:dashboard:stats"

// StatsCache keeps the dashboard's per-entity totals hot for a short
// TTL so a console reload does not fan out count queries every time.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached totals, or (nil, nil) on a miss.
func (s *StatsCache) Get(ctx context.Context) (map[string]int, error) {
	raw, err := s.client.Get(ctx, statsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stats cache: %w", err)
	}
	var out map[string]int
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode stats cache: %w", err)
	}
	return out, nil
}

// Set stores fresh totals under the configured TTL.
func (s *StatsCache) Set(ctx context.Context, stats map[string]int) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats cache: %w", err)
	}
	if err := s.client.Set(ctx, statsKey, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set stats cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached totals after a mutation.
func (s *StatsCache) Invalidate(ctx context.Context) error {
	return s.client.Del(ctx, statsKey).Err()
}
