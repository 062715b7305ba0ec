package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"absences/internal/referencedata/metrics"
	"absences/internal/referencedata/models"
	"absences/pkg/platform/sentinel"
)

// Bump the version suffix whenever the encoded catalogue shape changes.
const catalogueKey = "absences:catalogue:v1"

// Redis shares the catalogue snapshot between instances.
type Redis struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewRedis constructs a Redis-backed catalogue cache. m may be nil.
func NewRedis(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *Redis {
	return &Redis{client: client, ttl: ttl, metrics: m}
}

// Get returns sentinel.ErrNotFound when the key is missing or expired and
// sentinel.ErrInvalidState when the stored value cannot be decoded.
func (c *Redis) Get(ctx context.Context) (*models.Catalogue, error) {
	data, err := c.client.Get(ctx, catalogueKey).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.IncCacheLookup(BackendRedis, metrics.ResultMiss)
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		c.metrics.IncCacheLookup(BackendRedis, metrics.ResultError)
		return nil, fmt.Errorf("%w: get catalogue: %w", sentinel.ErrUnavailable, err)
	}

	var cat models.Catalogue
	if err := json.Unmarshal(data, &cat); err != nil {
		c.metrics.IncCacheLookup(BackendRedis, metrics.ResultError)
		return nil, fmt.Errorf("%w: decode catalogue: %w", sentinel.ErrInvalidState, err)
	}
	c.metrics.IncCacheLookup(BackendRedis, metrics.ResultHit)
	return &cat, nil
}

// Set stores the catalogue with the configured TTL. A nil catalogue is a
// no-op.
func (c *Redis) Set(ctx context.Context, cat *models.Catalogue) error {
	if cat == nil {
		return nil
	}
	data, err := json.Marshal(cat)
	if err != nil {
		return fmt.Errorf("encode catalogue: %w", err)
	}
	if err := c.client.Set(ctx, catalogueKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set catalogue: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (c *Redis) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogueKey).Err(); err != nil {
		return fmt.Errorf("%w: delete catalogue: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
