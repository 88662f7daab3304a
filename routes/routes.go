package routes

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/model-router/app"
	"github.com/upb/model-router/handlers"
	"github.com/upb/model-router/repositories"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var db *sql.DB
	if deps.DB != nil {
		db = deps.DB.DB
	}
	var decisionLogRepo repositories.DecisionLogRepository
	if deps.Repos != nil {
		decisionLogRepo = deps.Repos.DecisionLogs
	}

	healthHandler := handlers.NewHealthHandler(db, deps.Logger)
	routingHandler := handlers.NewRoutingHandler(deps.Engine, deps.DecisionLog, deps.Logger)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, deps.Logger)
	tenantHandler := handlers.NewTenantHandler(deps.Tenants, deps.Logger)
	decisionLogHandler := handlers.NewDecisionLogHandler(decisionLogRepo, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Routing hot path
		r.Post("/route", routingHandler.HandleRoute)
		r.Get("/recommendations", routingHandler.HandleRecommend)

		// Read-only catalog/tenant queries
		r.Get("/models", catalogHandler.HandleList)
		r.Get("/models/{id}", catalogHandler.HandleGet)
		r.Get("/tenants/{id}", tenantHandler.HandleGet)

		// Administrative writes (require admin role)
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Use(deps.AuthMiddleware.RequireRole(deps.Config.Auth.AdminRole))
			r.Put("/models", catalogHandler.HandleRegister)
			r.Put("/tenants", tenantHandler.HandleSet)
			r.Get("/decisions", decisionLogHandler.HandleListByTenant)
		})
	})

	return r
}
