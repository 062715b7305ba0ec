package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"absences/internal/platform/config"
	"absences/internal/platform/httpserver"
	"absences/internal/platform/kafka/consumer"
	"absences/internal/platform/logger"
	httpmetrics "absences/internal/platform/metrics"
	"absences/internal/platform/middleware"
	"absences/internal/platform/migrate"
	"absences/internal/platform/postgres"
	"absences/internal/platform/redis"
	"absences/internal/referencedata/cache"
	"absences/internal/referencedata/events"
	"absences/internal/referencedata/handler"
	"absences/internal/referencedata/metrics"
	"absences/internal/referencedata/service"
	"absences/internal/referencedata/store"
	"absences/pkg/platform/circuit"
	"absences/pkg/platform/httputil"
	"absences/pkg/platform/middleware/admin"
	"absences/pkg/platform/middleware/metadata"
	"absences/pkg/platform/middleware/request"
	"absences/pkg/platform/middleware/requesttime"
	"absences/pkg/requestcontext"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	refMetrics := metrics.New()

	refStore, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	catalogueCache, closeCache, err := openCache(ctx, cfg, log, refMetrics)
	if err != nil {
		return err
	}
	defer closeCache()

	svc, err := service.New(refStore,
		service.WithCache(catalogueCache),
		service.WithLogger(log),
		service.WithMetrics(refMetrics),
		service.WithLoadTimeout(cfg.Catalogue.LoadTimeout),
	)
	if err != nil {
		return err
	}

	var checks []healthCheck
	if len(cfg.Kafka.Brokers) > 0 {
		router := consumer.NewRouter(log, nil)
		router.Register(cfg.Kafka.Topic, events.NewChangeHandler(svc, log))
		changes, err := consumer.New(cfg.Kafka, router, log)
		if err != nil {
			return err
		}
		defer changes.Close()
		checks = append(checks, healthCheck{name: "kafka", check: changes.Health})
		go func() {
			if err := changes.Run(ctx); err != nil {
				log.ErrorContext(ctx, "reference data change consumer stopped", "error", err)
			}
		}()
		log.Info("consuming reference data changes", "topic", cfg.Kafka.Topic, "group", cfg.Kafka.Group)
	}

	srv := httpserver.New(cfg.Addr, newRouter(cfg, log, svc, httpmetrics.New(), checks...))

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting absences", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newRouter(cfg config.Server, log *slog.Logger, svc *service.Service, m *httpmetrics.Metrics, checks ...healthCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(log))
	r.Use(middleware.Instrument(m))

	r.Get("/health", healthHandler(log, svc, checks))
	r.Handle("/metrics", promhttp.Handler())

	h := handler.New(svc, log)
	h.Register(r)
	if guard := adminGuard(cfg, log); guard != nil {
		r.Group(func(r chi.Router) {
			r.Use(guard)
			h.RegisterAdmin(r)
		})
	}
	return r
}

// adminGuard prefers the hashed token. It returns nil when neither is set.
func adminGuard(cfg config.Server, log *slog.Logger) func(http.Handler) http.Handler {
	switch {
	case cfg.AdminAPITokenHash != "":
		return admin.RequireAdminTokenHash(cfg.AdminAPITokenHash, log)
	case cfg.AdminAPIToken != "":
		return admin.RequireAdminToken(cfg.AdminAPIToken, log)
	}
	return nil
}

// healthCheck is an auxiliary dependency. Its failure degrades /health but
// does not fail it: categorisation keeps working from the store.
type healthCheck struct {
	name  string
	check func(context.Context) error
}

func healthHandler(log *slog.Logger, svc *service.Service, checks []healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := svc.Health(ctx); err != nil {
			httputil.WriteError(w, err)
			return
		}
		resp := map[string]string{"status": "ok"}
		for _, hc := range checks {
			if err := hc.check(ctx); err != nil {
				log.WarnContext(ctx, "health check failed",
					"request_id", requestcontext.RequestID(ctx),
					"component", hc.name,
					"error", err,
				)
				resp["status"] = "degraded"
				resp[hc.name] = "unavailable"
				continue
			}
			resp[hc.name] = "ok"
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

// openStore connects to Postgres when DATABASE_URL is set and falls back to
// the seeded in-memory catalogue otherwise.
func openStore(ctx context.Context, cfg config.Server, log *slog.Logger) (service.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, serving the seeded in-memory catalogue")
		return store.NewInMemory(store.Seed()), func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	applied, err := migrate.Migrate(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("database ready", "migrations_applied", applied)
	return store.NewPostgres(db), func() { _ = db.Close() }, nil
}

// openCache shares the catalogue through Redis when REDIS_URL is set and
// keeps it in process otherwise.
func openCache(ctx context.Context, cfg config.Server, log *slog.Logger, m *metrics.Metrics) (service.Cache, func(), error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return cache.NewMemory(cfg.Catalogue.CacheTTL, m), func() {}, nil
	}

	breaker := circuit.New("catalogue-cache")
	c := cache.WithBreaker(cache.NewRedis(client.Client, cfg.Catalogue.CacheTTL, m), breaker, log, m)
	log.Info("catalogue cache backed by redis", "ttl", cfg.Catalogue.CacheTTL)
	return c, func() { _ = client.Close() }, nil
}
