// Package cache keeps the catalogue snapshot close to the service. The
// snapshot is read on every request and changes rarely, so it is cached as
// a whole under a single key.
package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"absences/internal/referencedata/metrics"
	"absences/internal/referencedata/models"
	"absences/pkg/platform/sentinel"
)

// Backend labels used in metrics.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Cache stores one catalogue snapshot. Get returns sentinel.ErrNotFound on
// a miss. Callers must not mutate the returned catalogue.
type Cache interface {
	Get(ctx context.Context) (*models.Catalogue, error)
	Set(ctx context.Context, c *models.Catalogue) error
	Invalidate(ctx context.Context) error
}

var (
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
	_ Cache = (*Breaking)(nil)
)

// Memory is a process-local cache with TTL expiration. A non-positive TTL
// never expires.
type Memory struct {
	mu       sync.RWMutex
	entry    *models.Catalogue
	storedAt time.Time
	ttl      time.Duration
	clock    func() time.Time
	metrics  *metrics.Metrics
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the clock used for expiry.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewMemory creates an in-memory cache. m may be nil.
func NewMemory(ttl time.Duration, m *metrics.Metrics, opts ...MemoryOption) *Memory {
	c := &Memory{
		ttl:     ttl,
		clock:   time.Now,
		metrics: m,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Memory) Get(_ context.Context) (*models.Catalogue, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil || c.expired() {
		c.metrics.IncCacheLookup(BackendMemory, metrics.ResultMiss)
		return nil, sentinel.ErrNotFound
	}
	c.metrics.IncCacheLookup(BackendMemory, metrics.ResultHit)
	return c.entry, nil
}

func (c *Memory) expired() bool {
	return c.ttl > 0 && c.clock().Sub(c.storedAt) >= c.ttl
}

// Set stores a copy of the catalogue. A nil catalogue is a no-op.
func (c *Memory) Set(_ context.Context, cat *models.Catalogue) error {
	if cat == nil {
		return nil
	}
	stored := models.Catalogue{
		Items:    slices.Clone(cat.Items),
		Links:    slices.Clone(cat.Links),
		LoadedAt: cat.LoadedAt,
		Version:  cat.Version,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = &stored
	c.storedAt = c.clock()
	return nil
}

func (c *Memory) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
	return nil
}
