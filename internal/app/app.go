// Package app wires configuration, storage, the upstream client and the
// lookup service together for the CLI and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/geolocation"
	"github.com/fakhrymubarak/weather-widget/internal/handler"
	"github.com/fakhrymubarak/weather-widget/internal/middleware"
	"github.com/fakhrymubarak/weather-widget/internal/recent"
	"github.com/fakhrymubarak/weather-widget/internal/redis"
	"github.com/fakhrymubarak/weather-widget/internal/repository"
	"github.com/fakhrymubarak/weather-widget/internal/service"
	"github.com/fakhrymubarak/weather-widget/internal/storage"
)

type App struct {
	Service *service.WeatherService
	kv      storage.KeyValue
}

// Options overrides parts of the configuration.
type Options struct {
	// Locator replaces the configured geolocation provider when set.
	Locator geolocation.Locator
	// Repository replaces the OpenWeatherMap client when set.
	Repository repository.WeatherRepository
}

// New builds an App from config.
func New(opts Options) (*App, error) {
	log := config.GetLogger()

	backend := config.GetRecentBackend()
	kvOpts := storage.Options{Backend: backend, Path: config.GetRecentPath()}
	if backend == storage.BackendRedis {
		kvOpts.Redis = redis.GetClient()
	}
	kv, err := storage.Open(kvOpts)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", backend, err)
	}

	repo := opts.Repository
	if repo == nil {
		var repoOpts []repository.Option
		if config.IsCacheEnabled() {
			repoOpts = append(repoOpts, repository.WithCache(redis.GetClient(), config.GetCacheExpiration()))
		}
		repo = repository.NewWeatherRepository(repoOpts...)
	}

	locator := opts.Locator
	if locator == nil {
		locator = geolocation.FromConfig()
	}

	log.Infow("Weather widget initialized", "recent_backend", backend, "cache", config.IsCacheEnabled())
	return &App{
		Service: service.NewWeatherService(repo, recent.NewStore(kv, config.GetRecentKey()), locator),
		kv:      kv,
	}, nil
}

func (a *App) Close() error {
	return a.kv.Close()
}

// Router returns the HTTP routes behind the rate limiter.
func (a *App) Router(rl *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()
	handler.NewWeatherHandler(a.Service).Routes(mux)
	return rl.Middleware(mux)
}

// Serve runs the HTTP server on addr until ctx is done.
func (a *App) Serve(ctx context.Context, addr string) error {
	rl := middleware.NewRateLimiterFromConfig()
	rl.StartCleanup(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(rl),
		ReadHeaderTimeout: config.GetServerTimeout("read_header_timeout", 15*time.Second),
		ReadTimeout:       config.GetServerTimeout("read_timeout", 15*time.Second),
		WriteTimeout:      config.GetServerTimeout("write_timeout", 10*time.Second),
		IdleTimeout:       config.GetServerTimeout("idle_timeout", 30*time.Second),
	}

	serverErr := make(chan error, 1)
	go func() {
		config.GetLogger().Infow("Weather widget server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
