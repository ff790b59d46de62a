// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"activity-signup/internal/activities"
	"activity-signup/internal/common/config"
	"activity-signup/internal/common/database"
	commonhttp "activity-signup/internal/common/http"
	"activity-signup/internal/common/logger"
	"activity-signup/internal/common/observability"
	"activity-signup/internal/notifications"
	"activity-signup/pkg/registry"
)

// Server owns the HTTP listener and everything the handlers depend on.
type Server struct {
	cfg     *config.Config
	logger  logger.Logger
	obs     *observability.Observability
	service *activities.Service
	redis   *database.RedisClient
	http    *http.Server
}

// New wires the registry backend, notifications and HTTP routes from cfg.
func New(ctx context.Context, cfg *config.Config, obs *observability.Observability, log logger.Logger) (*Server, error) {
	seed, err := loadSeed(cfg.Registry)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, logger: log, obs: obs}

	store, err := s.buildStore(ctx, seed)
	if err != nil {
		return nil, err
	}

	notifier, err := notifications.NewFromConfig(ctx, cfg.Notifications, log)
	if err != nil {
		s.closeRedis()
		return nil, fmt.Errorf("notifications: %w", err)
	}

	s.service = activities.NewService(store, notifier, obs, log)
	handler := activities.NewHandler(activities.LoadConfig(cfg), s.service, log)

	mux := http.NewServeMux()
	handler.RegisterHTTPHandlers(mux)
	s.registerOps(mux)

	s.http = &http.Server{
		Addr: cfg.Server.Address,
		Handler: commonhttp.Chain(mux,
			commonhttp.RequestID,
			commonhttp.Metrics,
			commonhttp.AccessLog(log),
		),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	log.Info("activity registry ready", map[string]interface{}{
		"backend":              cfg.Registry.Backend,
		"activities":           len(seed.Activities),
		"notificationChannels": notifier.Len(),
	})
	return s, nil
}

func loadSeed(cfg config.RegistryConfig) (*registry.Seed, error) {
	if cfg.SeedFile == "" {
		return registry.Default(), nil
	}
	seed, err := registry.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("load seed %s: %w", cfg.SeedFile, err)
	}
	return seed, nil
}

func (s *Server) buildStore(ctx context.Context, seed *registry.Seed) (activities.Store, error) {
	if s.cfg.Registry.Backend != config.BackendRedis {
		return activities.NewMemoryStore(seed), nil
	}

	s.redis = database.NewRedis(s.cfg.Database.Redis)
	if err := s.redis.ConnectWithRetry(ctx, 10, 500*time.Millisecond); err != nil {
		s.closeRedis()
		return nil, err
	}

	store := activities.NewRedisStore(s.redis.Client, s.cfg.Registry.KeyPrefix)
	seeded, err := store.Seed(ctx, seed, s.cfg.Registry.Reseed)
	if err != nil {
		s.closeRedis()
		return nil, err
	}
	s.logger.Info("redis registry attached", map[string]interface{}{
		"address":   s.cfg.Database.Redis.Address,
		"keyPrefix": s.cfg.Registry.KeyPrefix,
		"seeded":    seeded,
	})
	return store, nil
}

func (s *Server) registerOps(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.service.Ping(ctx); err != nil {
			commonhttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
		commonhttp.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	if dir := s.cfg.Server.StaticDir; dir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/static/", http.StatusTemporaryRedirect)
		})
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks until the listener stops. http.ErrServerClosed is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", map[string]interface{}{"address": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the registry backend.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.closeRedis()
	return err
}

func (s *Server) closeRedis() {
	if s.redis == nil {
		return
	}
	if err := s.redis.Close(); err != nil {
		s.logger.Warn("error closing redis", map[string]interface{}{"error": err.Error()})
	}
	s.redis = nil
}
