package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ivolkov/portfolio-graphs/internal/api/handlers"
	custommiddleware "github.com/ivolkov/portfolio-graphs/internal/api/middleware"
	"github.com/ivolkov/portfolio-graphs/internal/config"
	"github.com/ivolkov/portfolio-graphs/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	db *sql.DB,
	portfolioService *service.PortfolioService,
	securityService *service.SecurityService,
	graphService *service.GraphService,
	snapshotService *service.SnapshotService,
	settingService *service.SettingService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(db)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/security", func(r chi.Router) {
			securityHandler := handlers.NewSecurityHandler(securityService)
			r.Get("/", securityHandler.Securities)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
			graphHandler := handlers.NewGraphHandler(graphService, snapshotService, cfg.Media.Root)

			r.Get("/", portfolioHandler.Portfolios)
			r.Post("/", portfolioHandler.CreatePortfolio)

			r.Route("/{portfolioId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUID("portfolioId"))

				r.Get("/items", portfolioHandler.Holdings)
				r.Post("/items", portfolioHandler.AddItem)

				r.Get("/graphs", graphHandler.Datasets)
				r.Get("/graphs/{variant}", graphHandler.Dataset)
				r.Get("/graphs/{variant}/materialized", graphHandler.Materialized)
			})

			r.Route("/items/{itemId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUID("itemId"))

				r.Put("/quantity", portfolioHandler.AdjustItem)
				r.Delete("/", portfolioHandler.RemoveItem)
			})
		})

		r.Route("/developer", func(r chi.Router) {
			developerHandler := handlers.NewDeveloperHandler(settingService)
			r.Get("/fx-key", developerHandler.APIKeyStatus)
			r.Put("/fx-key", developerHandler.SetAPIKey)
		})
	})

	return r
}
