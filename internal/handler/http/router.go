package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iamvishalkhare/redisearch-product-catalog/pkg/health"
	"github.com/iamvishalkhare/redisearch-product-catalog/pkg/middleware"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/loader"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/service"
)

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(
	tenantService *service.TenantService,
	catalogService *service.CatalogService,
	searchService *service.SearchService,
	dataLoader *loader.Loader,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog"))
	r.Use(middleware.Tracing("catalog"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	tenantHandler := NewTenantHandler(tenantService, logger)
	catalogHandler := NewCatalogHandler(catalogService, logger)
	searchHandler := NewSearchHandler(searchService, logger)
	loaderHandler := NewLoaderHandler(dataLoader, logger)

	r.Route("/customer", func(r chi.Router) {
		r.Post("/register", tenantHandler.Register)
		r.Get("/{token}", tenantHandler.Get)
	})

	r.Route("/skus", func(r chi.Router) {
		r.Post("/ingest", catalogHandler.Ingest)
		r.Patch("/update_discounted_price", catalogHandler.UpdatePrice)
		r.Post("/expire/{token}", catalogHandler.Expire)
		r.Get("/{token}/{skuId}", catalogHandler.GetBySkuID)
		r.Delete("/{token}/{identifier}", catalogHandler.Delete)
	})

	r.Route("/search", func(r chi.Router) {
		r.Get("/fts/{token}", searchHandler.ByTerm)
		r.Get("/discounted_price_range/{token}", searchHandler.ByPriceRange)
		r.Get("/price_or_rating/{token}", searchHandler.ByRatingOrPrice)
		r.Get("/tags/{token}", searchHandler.ByTags)
	})

	r.Post("/dataloader", loaderHandler.Load)

	return r
}

// LoaderHandler handles the sample-data load endpoint.
type LoaderHandler struct {
	loader *loader.Loader
	logger *slog.Logger
}

// NewLoaderHandler creates a new loader HTTP handler.
func NewLoaderHandler(l *loader.Loader, logger *slog.Logger) *LoaderHandler {
	return &LoaderHandler{
		loader: l,
		logger: logger,
	}
}

// Load handles POST /dataloader
func (h *LoaderHandler) Load(w http.ResponseWriter, r *http.Request) {
	summary, err := h.loader.Run(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: summary})
}
