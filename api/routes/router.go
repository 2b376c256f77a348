package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	carts controllers.CartResolver,
	checkoutService checkout.Service,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	readiness map[string]controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/variants/resolve", controllers.VariantResolve(logg))

		// Idempotency matches on the full route pattern, which chi only knows
		// once the endpoint is resolved, so it wraps endpoints directly.
		idempotent := passthrough
		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))
			if redisClient != nil {
				cartPolicy := middleware.NewRateLimitPolicy(
					"cart",
					cfg.RateLimit.CartWindow,
					cfg.RateLimit.CartSessionLimit,
					cfg.RateLimit.CartIPLimit,
				)
				r.Use(middleware.RateLimit(cartPolicy, redisClient, logg))
				idempotent = middleware.Idempotency(redisClient, logg)
			}

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(carts, logg))
				r.Delete("/", controllers.CartClear(carts, logg))
				r.With(idempotent).Post("/items", controllers.CartAddItem(carts, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateQuantity(carts, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(carts, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/draft", controllers.CheckoutDraft(checkoutService, carts, logg))
				r.With(idempotent).Post("/complete", controllers.CheckoutComplete(checkoutService, carts, logg))
			})
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
