package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leafline-ai/leafline-backend/api/controllers"
	"github.com/leafline-ai/leafline-backend/api/middleware"
	cartsvc "github.com/leafline-ai/leafline-backend/internal/cart"
	"github.com/leafline-ai/leafline-backend/internal/catalog"
	"github.com/leafline-ai/leafline-backend/internal/policy"
	"github.com/leafline-ai/leafline-backend/pkg/config"
	"github.com/leafline-ai/leafline-backend/pkg/db"
	"github.com/leafline-ai/leafline-backend/pkg/logger"
	"github.com/leafline-ai/leafline-backend/pkg/metrics"
	"github.com/leafline-ai/leafline-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	pol *policy.Policy,
	catalogService catalog.Service,
	cartService cartsvc.Service,
	checkoutService controllers.CheckoutExecutor,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Session(cfg, logg),
			middleware.AgeGate(cfg, logg),
		)

		r.Get("/policy", controllers.PolicyShow(pol))
		r.Post("/verify-age", controllers.VerifyAge(cfg, pol, logg))
		r.Get("/auth/status", controllers.AuthStatus())

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Post("/", controllers.ProductCreate(catalogService, logg))
			r.Put("/{productId}", controllers.ProductUpdate(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))
	})

	return r
}
