package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// CachedRepository wraps a Repository with a redis read-through cache on
// Summarize. Upserts invalidate the client's cached summaries. A missing or
// failing redis never fails the request; reads fall back to the database.
type CachedRepository struct {
	Repository
	rdb *redis.Client
	ttl time.Duration
}

// NewCachedRepository wraps repo with a summary cache using the given redis
// client and TTL.
func NewCachedRepository(repo Repository, rdb *redis.Client, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		Repository: repo,
		rdb:        rdb,
		ttl:        ttl,
	}
}

func summaryKey(clientID uuid.UUID, from, to time.Time) string {
	return fmt.Sprintf("analytics:summary:%s:%s:%s",
		clientID, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func (c *CachedRepository) clientKeyPattern(clientID uuid.UUID) string {
	return fmt.Sprintf("analytics:summary:%s:*", clientID)
}

// Summarize returns the cached summary when present, otherwise computes it
// via the underlying repository and stores the result.
func (c *CachedRepository) Summarize(ctx context.Context, clientID uuid.UUID, from, to time.Time) (*Summary, error) {
	key := summaryKey(clientID, from, to)

	str, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		var s Summary
		if err := json.Unmarshal([]byte(str), &s); err == nil {
			return &s, nil
		}
		// Unreadable cache entry; drop it and recompute.
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		slog.Warn("analytics cache read failed", "error", err)
	}

	s, err := c.Repository.Summarize(ctx, clientID, from, to)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(s); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			slog.Warn("analytics cache write failed", "error", err)
		}
	}

	return s, nil
}

// Upsert writes through to the database and invalidates the client's cached
// summaries.
func (c *CachedRepository) Upsert(ctx context.Context, m *DailyMetrics) error {
	if err := c.Repository.Upsert(ctx, m); err != nil {
		return err
	}

	keys, err := c.rdb.Keys(ctx, c.clientKeyPattern(m.ClientID)).Result()
	if err != nil {
		slog.Warn("analytics cache invalidation scan failed", "error", err)
		return nil
	}
	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			slog.Warn("analytics cache invalidation failed", "error", err)
		}
	}

	return nil
}
