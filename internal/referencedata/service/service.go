package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"absences/internal/referencedata/graph"
	"absences/internal/referencedata/hierarchy"
	"absences/internal/referencedata/metrics"
	"absences/internal/referencedata/models"
	"absences/pkg/domain"
	dErrors "absences/pkg/domain-errors"
	"absences/pkg/platform/sentinel"
	"absences/pkg/requestcontext"
)

const (
	defaultLoadTimeout = 5 * time.Second
	loadKey            = "catalogue"
)

var tracer = otel.Tracer("absences/referencedata")

// Store is the read boundary over persisted reference data.
type Store interface {
	ListActive(ctx context.Context, domains ...domain.DomainCode) ([]models.ReferenceData, error)
	ListLinks(ctx context.Context) ([]models.CategorisationLink, error)
	Ping(ctx context.Context) error
}

// Cache holds the catalogue snapshot. Get returns sentinel.ErrNotFound on a
// miss.
type Cache interface {
	Get(ctx context.Context) (*models.Catalogue, error)
	Set(ctx context.Context, c *models.Catalogue) error
	Invalidate(ctx context.Context) error
}

// Service serves categorisation queries over a snapshot of the reference
// data, loaded cache-aside.
type Service struct {
	store       Store
	cache       Cache
	logger      *slog.Logger
	metrics     *metrics.Metrics
	loadTimeout time.Duration
	loads       singleflight.Group

	// generation is bumped by Invalidate; a load that sees it change does
	// not write its result to the cache.
	generation atomic.Uint64
	current    atomic.Pointer[view]
}

// view is the indexed form of one catalogue load. Filters are built at most
// once per view.
type view struct {
	version string
	graph   *graph.Graph

	filtersOnce sync.Once
	filters     models.CategorisationFilters
	filtersErr  error
}

func (v *view) Filters() (models.CategorisationFilters, error) {
	v.filtersOnce.Do(func() {
		roots, err := hierarchy.Build(v.graph)
		if err != nil {
			v.filtersErr = err
			return
		}
		v.filters = hierarchy.Filters(roots)
	})
	return v.filters, v.filtersErr
}

type Option func(s *Service)

func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLoadTimeout bounds a store load. Non-positive values are ignored.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// New constructs a Service. The store is required.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("reference data store is required")
	}
	s := &Service{
		store:       store,
		logger:      slog.Default(),
		loadTimeout: defaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// snapshot returns the view over the current catalogue, from the cache when
// possible. Cache failures are logged and fall through to the store.
func (s *Service) snapshot(ctx context.Context) (*view, error) {
	ctx, span := tracer.Start(ctx, "referencedata.Service.snapshot",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Bool("cache.enabled", s.cache != nil)),
	)
	defer span.End()
	start := time.Now()

	if s.cache != nil {
		cat, err := s.cache.Get(ctx)
		if err == nil {
			span.SetAttributes(attribute.String("source", metrics.SourceCache))
			s.metrics.ObserveSnapshotLoad(metrics.SourceCache, time.Since(start))
			return s.viewOf(cat), nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "catalogue cache read failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}

	v, err, shared := s.loads.Do(loadKey, func() (any, error) {
		// Shared by every waiting caller, so it must outlive the leader's
		// request.
		detached := context.WithoutCancel(ctx)
		generation := s.generation.Load()
		cat, err := s.load(detached)
		if err != nil {
			return nil, err
		}
		if s.generation.Load() != generation {
			s.logger.InfoContext(ctx, "catalogue invalidated during load, not caching",
				"request_id", requestcontext.RequestID(ctx),
				"version", cat.Version,
			)
			return cat, nil
		}
		s.cacheCatalogue(detached, cat)
		return cat, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load reference data")
		return nil, err
	}
	cat := v.(*models.Catalogue)
	span.SetAttributes(
		attribute.String("source", metrics.SourceStore),
		attribute.Bool("shared", shared),
		attribute.Int("items", len(cat.Items)),
		attribute.Int("links", len(cat.Links)),
	)
	s.metrics.ObserveSnapshotLoad(metrics.SourceStore, time.Since(start))
	return s.viewOf(cat), nil
}

// viewOf reuses the current view when cat is the same load, so the graph and
// filters are rebuilt only when the catalogue changes.
func (s *Service) viewOf(cat *models.Catalogue) *view {
	if cur := s.current.Load(); cur != nil && cat.Version != "" && cur.version == cat.Version {
		return cur
	}
	v := &view{version: cat.Version, graph: graph.New(*cat)}
	s.current.Store(v)
	return v
}

func (s *Service) cacheCatalogue(ctx context.Context, cat *models.Catalogue) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()
	if err := s.cache.Set(ctx, cat); err != nil {
		s.logger.WarnContext(ctx, "catalogue cache write failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

// load reads items and links in parallel within loadTimeout.
func (s *Service) load(ctx context.Context) (*models.Catalogue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	var (
		items []models.ReferenceData
		links []models.CategorisationLink
	)
	g.Go(func() error {
		var err error
		items, err = s.store.ListActive(gctx, domain.AllDomains()...)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = s.store.ListLinks(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "failed to load reference data",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "loading reference data timed out")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "reference data is unavailable")
	}

	return &models.Catalogue{
		Items:    items,
		Links:    links,
		LoadedAt: requestcontext.Now(ctx),
		Version:  uuid.NewString(),
	}, nil
}

// Invalidate drops the cached catalogue so the next request reloads it.
// A load already in flight still answers its callers but is not cached, and
// later callers start a fresh load. trigger labels the metric ("admin",
// "event").
func (s *Service) Invalidate(ctx context.Context, trigger string) error {
	if s.cache == nil {
		return nil
	}
	s.generation.Add(1)
	s.loads.Forget(loadKey)
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to invalidate catalogue cache",
			"request_id", requestcontext.RequestID(ctx),
			"trigger", trigger,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to invalidate catalogue cache")
	}
	s.metrics.IncInvalidation(trigger)
	s.logger.InfoContext(ctx, "catalogue cache invalidated",
		"request_id", requestcontext.RequestID(ctx),
		"trigger", trigger,
	)
	return nil
}

// Health reports whether the store is reachable.
func (s *Service) Health(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "reference data store unreachable")
	}
	return nil
}
