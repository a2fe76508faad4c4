// Package app wires together all dependencies and runs the catalog service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/iamvishalkhare/redisearch-product-catalog/pkg/health"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/config"
	handler "github.com/iamvishalkhare/redisearch-product-catalog/internal/handler/http"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/loader"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/query"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/schema"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/service"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/store"
	memorystore "github.com/iamvishalkhare/redisearch-product-catalog/internal/store/memory"
	redisstore "github.com/iamvishalkhare/redisearch-product-catalog/internal/store/redis"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg         *config.Config
	logger      *slog.Logger
	httpServer  *http.Server
	redisClient *goredis.Client
}

// NewApp creates a new application instance, initializing all dependencies.
// Schema declarations and every query shape are validated here: a bad
// declaration fails startup instead of surfacing on a request.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	tenantSchema := schema.Tenants()
	itemSchema := schema.Items()
	if err := tenantSchema.Validate(); err != nil {
		return nil, err
	}

	// Validates the item schema and dry-runs all search shapes against it.
	queries, err := query.NewBuilder(itemSchema)
	if err != nil {
		return nil, err
	}

	// Initialize the record store based on configuration.
	var (
		st          store.Store
		redisClient *goredis.Client
	)
	switch cfg.StoreBackend {
	case "redis":
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		st = redisstore.New(redisClient, tenantSchema, itemSchema, logger)
		logger.Info("redis record store initialized",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
	default:
		st = memorystore.New()
		logger.Info("in-memory record store initialized")
	}

	// Index bootstrap runs once here, decoupled from request handling.
	ensureCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.EnsureSchema(ensureCtx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	// Build the service layer.
	tenantService := service.NewTenantService(st, logger)
	catalogService := service.NewCatalogService(st, queries, logger)
	searchService := service.NewSearchService(st, queries, logger)
	dataLoader := loader.New(cfg.DataDir, tenantService, catalogService, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("store", st.Ping)

	// HTTP router.
	router := handler.NewRouter(tenantService, catalogService, searchService, dataLoader, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		httpServer:  httpServer,
		redisClient: redisClient,
	}, nil
}

// Run starts the HTTP server, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		return err
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			return err
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
