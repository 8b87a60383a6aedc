package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chairtime/chairtime-backend/api/controllers"
	"github.com/chairtime/chairtime-backend/api/middleware"
	checkoutsvc "github.com/chairtime/chairtime-backend/internal/checkout"
	"github.com/chairtime/chairtime-backend/internal/compplans"
	"github.com/chairtime/chairtime-backend/internal/refunds"
	"github.com/chairtime/chairtime-backend/internal/reports"
	"github.com/chairtime/chairtime-backend/pkg/config"
	"github.com/chairtime/chairtime-backend/pkg/db"
	"github.com/chairtime/chairtime-backend/pkg/logger"
	"github.com/chairtime/chairtime-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	checkoutService checkoutsvc.Service,
	refundService refunds.Service,
	reportsService reports.Service,
	planService compplans.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, cfg.Idempotency, logg))

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))
		r.Post("/refunds", controllers.Refund(refundService, logg))

		r.Get("/reports/daily", controllers.DailyReport(reportsService, logg))

		r.Route("/compensation-plans", func(r chi.Router) {
			r.Post("/", controllers.CreateCompensationPlan(planService, logg))
			r.Post("/{planId}/end", controllers.EndCompensationPlan(planService, logg))
		})
		r.Get("/employees/{employeeId}/compensation-plans", controllers.ListEmployeePlans(planService, logg))

		r.Route("/franchises/{franchiseId}/split-config", func(r chi.Router) {
			r.Get("/", controllers.GetSplitConfig(planService, logg))
			r.Put("/", controllers.SetSplitConfig(planService, logg))
		})
	})

	return r
}
