package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rogerio-castellano/inventory-ledger/docs"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-ledger/internal/http/middleware"
	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Options struct {
	JWTSecret []byte
	Limiter   *rl.Limiter
	Logger    *zap.Logger
	// Gatherer backs /metrics. Nil leaves the route out.
	Gatherer prometheus.Gatherer
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger(log))

	r.Get("/healthz", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(opts.JWTSecret))
		if opts.Limiter != nil {
			r.Use(mw.RateLimit(opts.Limiter))
		}

		r.Post("/orders", handlers.RecordOrderHandler)

		r.Get("/products", handlers.GetProductsHandler)
		r.Post("/products/import", handlers.ImportProductsHandler)
		r.Get("/products/{productId}", handlers.GetProductHandler)
		r.Delete("/products/{productId}", handlers.DeleteProductHandler)
		r.Get("/products/{productId}/series", handlers.GetSeriesHandler)
		r.Get("/products/{productId}/series/export", handlers.ExportSeriesHandler)

		r.Get("/categories", handlers.GetCategoriesHandler)

		r.Get("/analytics/categories", handlers.CategoryRollupHandler)
		r.Get("/analytics/categories/volume", handlers.CategoryVolumeHandler)
		r.Get("/analytics/out-of-stock", handlers.OutOfStockHandler)

		r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	})

	return r
}
