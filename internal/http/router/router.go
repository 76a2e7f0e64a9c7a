package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meridian-realty/dashboard-api/internal/auth"
	"github.com/meridian-realty/dashboard-api/internal/config"
	"github.com/meridian-realty/dashboard-api/internal/database"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/http/handler"
	"github.com/meridian-realty/dashboard-api/internal/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/meridian-realty/dashboard-api/docs" // Import generated swagger docs
)

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	Auth       *handler.AuthHandler
	Agency     *handler.AgencyHandler
	Lead       *handler.LeadHandler
	Viewing    *handler.ViewingHandler
	Journey    *handler.JourneyHandler
	DealRecord *handler.DealRecordHandler
	Analytics  *handler.AnalyticsHandler
}

type Router struct {
	cfg                    *config.Config
	logger                 *zap.Logger
	db                     *gorm.DB
	authMiddleware         *auth.Middleware
	agencyFilterMiddleware *middleware.AgencyFilterMiddleware
	rateLimiter            *middleware.RateLimiter
	handlers               Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	agencyFilterMiddleware *middleware.AgencyFilterMiddleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:                    cfg,
		logger:                 logger,
		db:                     db,
		authMiddleware:         authMiddleware,
		agencyFilterMiddleware: agencyFilterMiddleware,
		rateLimiter:            rateLimiter,
		handlers:               handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness probe with pool statistics
	r.Get("/health/db", rt.databaseHealth)

	r.Handle("/metrics", promhttp.Handler())

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	h := rt.handlers
	writers := rt.authMiddleware.RequireRole(domain.RoleAdmin, domain.RoleAgent, domain.RoleAPIService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)
		r.Use(rt.agencyFilterMiddleware.Filter)

		r.Get("/auth/me", h.Auth.Me)

		r.Route("/agencies", func(r chi.Router) {
			r.Get("/", h.Agency.List)
			r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin)).Post("/", h.Agency.Create)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.Lead.ListLeads)
			r.With(writers).Post("/", h.Lead.CreateLead)
		})

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", h.Lead.ListProperties)
			r.With(writers).Post("/", h.Lead.CreateProperty)
		})

		r.Route("/viewings", func(r chi.Router) {
			r.Get("/", h.Viewing.List)
			r.With(writers).Post("/", h.Viewing.Create)
			r.Get("/{id}", h.Viewing.GetByID)
		})

		r.Route("/journeys", func(r chi.Router) {
			r.Get("/", h.Journey.List)
			r.With(writers).Post("/", h.Journey.Create)
			r.With(writers).Put("/{id}/stage", h.Journey.AdvanceStage)
			r.Get("/{id}/transitions", h.Journey.ListTransitions)
		})

		r.Route("/negotiations", func(r chi.Router) {
			r.Get("/", h.DealRecord.ListNegotiations)
			r.With(writers).Post("/", h.DealRecord.CreateNegotiation)
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Get("/", h.DealRecord.ListContracts)
			r.With(writers).Post("/", h.DealRecord.CreateContract)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/viewings", h.Analytics.Viewings)
			r.Get("/negotiations", h.Analytics.Negotiations)
			r.Get("/contracts", h.Analytics.Contracts)
			r.Get("/stalls", h.Analytics.Stalls)
			r.Get("/funnel", h.Analytics.Funnel)
			r.Get("/overview", h.Analytics.Overview)
			r.Get("/dates", h.Analytics.Dates)
		})
	})

	return r
}

func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(r.Context(), rt.db)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
			"stats":   stats,
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats":   stats,
	})
}
