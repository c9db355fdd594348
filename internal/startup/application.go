// Package startup wires configuration into a running HTTP server.
package startup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/NomadCrew/nomad-crew-newsletter/config"
	"github.com/NomadCrew/nomad-crew-newsletter/db"
	"github.com/NomadCrew/nomad-crew-newsletter/handlers"
	"github.com/NomadCrew/nomad-crew-newsletter/internal/emailclient"
	"github.com/NomadCrew/nomad-crew-newsletter/logger"
	"github.com/NomadCrew/nomad-crew-newsletter/router"
	"github.com/NomadCrew/nomad-crew-newsletter/services"
	"github.com/NomadCrew/nomad-crew-newsletter/store/postgres"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

// BuildOptions overrides process-wide defaults, mainly for tests.
type BuildOptions struct {
	// Registry receives the email client metrics and backs /metrics.
	// Defaults to prometheus.DefaultRegisterer / DefaultGatherer.
	Registry *prometheus.Registry
	// SkipMigrations leaves the schema untouched.
	SkipMigrations bool
}

// Application is a configured server bound to its listener.
type Application struct {
	server   *http.Server
	listener net.Listener
	database *db.DatabaseClient
	redis    *redis.Client
	port     int
}

// Build connects dependencies and binds the listener. A configured port of
// 0 picks a free port, reported by Port.
func Build(cfg *config.Config, opts BuildOptions) (*Application, error) {
	log := logger.GetLogger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := db.NewDatabaseClient(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if !opts.SkipMigrations {
		if err := db.RunMigrations(cfg.Database.URL()); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	metricsHandler := promhttp.Handler()
	if opts.Registry != nil {
		registerer = opts.Registry
		metricsHandler = promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})
	}

	sender, err := newEmailSender(&cfg.EmailClient, emailclient.NewMetrics(registerer))
	if err != nil {
		database.Close()
		return nil, err
	}

	app := &Application{database: database}

	// Cmdable stays nil when Redis is off so downstream nil checks hold.
	var cache redis.Cmdable
	if cfg.Redis.Enabled {
		app.redis = redis.NewClient(cfg.Redis.RedisOptions())
		cache = app.redis
	} else {
		log.Info("Redis disabled; subscription rate limiting is off")
	}

	subscriptions := postgres.NewPgSubscriptionStore(database.GetPool())
	subscriptionService := services.NewSubscriptionService(subscriptions, sender, cfg.Server.BaseURL)
	healthService := services.NewHealthService(database, cache, cfg.Server.Version)

	engine := router.SetupRouter(router.Dependencies{
		Config:              cfg,
		HealthHandler:       handlers.NewHealthHandler(healthService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(subscriptionService),
		RedisClient:         cache,
		MetricsHandler:      metricsHandler,
		Logger:              log,
	})

	listener, err := net.Listen("tcp", cfg.Server.Address())
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to bind %s: %w", cfg.Server.Address(), err)
	}
	app.listener = listener
	app.port = listener.Addr().(*net.TCPAddr).Port

	app.server = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Infow("Application built",
		"environment", cfg.Server.Environment,
		"address", net.JoinHostPort(cfg.Server.Host, strconv.Itoa(app.port)),
		"emailProvider", cfg.EmailClient.Provider,
		"database", logger.MaskConnectionString(cfg.Database.URL()))
	return app, nil
}

func newEmailSender(cfg *config.EmailClientConfig, metrics *emailclient.Metrics) (services.EmailSender, error) {
	sender, err := cfg.Sender()
	if err != nil {
		return nil, fmt.Errorf("invalid sender email: %w", err)
	}
	switch cfg.Provider {
	case config.EmailProviderResend:
		return emailclient.NewResendClient(sender, cfg.Token(), cfg.Timeout(), emailclient.WithMetrics(metrics))
	default:
		return emailclient.NewClient(cfg.BaseURL, sender, cfg.Token(), cfg.Timeout(), emailclient.WithMetrics(metrics))
	}
}

// Port is the TCP port the listener is bound to.
func (a *Application) Port() int {
	return a.port
}

// Handler exposes the router for in-process requests.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *Application) Run(ctx context.Context) error {
	log := logger.GetLogger()
	defer a.closeResources()

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Starting server", "port", a.port)
		errCh <- a.server.Serve(a.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("Server stopped")
	return nil
}

func (a *Application) closeResources() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.GetLogger().Warnw("Failed to close Redis client", "error", err)
		}
	}
	a.database.Close()
}
