package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"absences/internal/referencedata/metrics"
	"absences/internal/referencedata/models"
	"absences/pkg/platform/circuit"
	"absences/pkg/platform/sentinel"
)

// Breaking guards a remote cache with a circuit breaker. While the breaker
// is open Get and Set fail fast with sentinel.ErrUnavailable and the caller
// goes straight to the store.
type Breaking struct {
	inner   Cache
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// WithBreaker wraps inner. logger and m may be nil.
func WithBreaker(inner Cache, b *circuit.Breaker, logger *slog.Logger, m *metrics.Metrics) *Breaking {
	if logger == nil {
		logger = slog.Default()
	}
	m.SetBreakerOpen(b.Name(), b.IsOpen())
	return &Breaking{inner: inner, breaker: b, logger: logger, metrics: m}
}

func (c *Breaking) Get(ctx context.Context) (*models.Catalogue, error) {
	if !c.breaker.Allow() {
		return nil, c.open()
	}
	cat, err := c.inner.Get(ctx)
	c.record(ctx, err)
	return cat, err
}

func (c *Breaking) Set(ctx context.Context, cat *models.Catalogue) error {
	if !c.breaker.Allow() {
		return c.open()
	}
	err := c.inner.Set(ctx, cat)
	c.record(ctx, err)
	return err
}

// Invalidate always reaches the inner cache so that a change is never lost
// while the breaker is open.
func (c *Breaking) Invalidate(ctx context.Context) error {
	err := c.inner.Invalidate(ctx)
	c.record(ctx, err)
	return err
}

func (c *Breaking) open() error {
	return fmt.Errorf("%w: %s circuit open", sentinel.ErrUnavailable, c.breaker.Name())
}

// record counts only availability failures; misses and undecodable entries
// mean the backend answered.
func (c *Breaking) record(ctx context.Context, err error) {
	var change circuit.StateChange
	if errors.Is(err, sentinel.ErrUnavailable) {
		_, change = c.breaker.RecordFailure()
	} else {
		_, change = c.breaker.RecordSuccess()
	}

	switch {
	case change.Opened:
		c.logger.WarnContext(ctx, "circuit breaker opened",
			"breaker", c.breaker.Name(),
			"error", err,
		)
		c.metrics.SetBreakerOpen(c.breaker.Name(), true)
	case change.Closed:
		c.logger.InfoContext(ctx, "circuit breaker closed",
			"breaker", c.breaker.Name(),
		)
		c.metrics.SetBreakerOpen(c.breaker.Name(), false)
	}
}
