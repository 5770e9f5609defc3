package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-ledger/internal/api/handlers"
	custommiddleware "github.com/ndewijer/portfolio-ledger/internal/api/middleware"
	"github.com/ndewijer/portfolio-ledger/internal/config"
	"github.com/ndewijer/portfolio-ledger/internal/ledger"
	"github.com/ndewijer/portfolio-ledger/internal/service"
)

// NewRouter creates and configures the HTTP router. source is the ledger
// reloaded by POST /api/portfolio/reload.
func NewRouter(
	systemService *service.SystemService,
	portfolioService *service.PortfolioService,
	source ledger.RowSource,
	cfg *config.Config,
	log zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log.With().Str("component", "http").Logger()))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(portfolioService, source)
			r.Get("/summary", portfolioHandler.Summary)
			r.Get("/performance", portfolioHandler.Performance)
			r.Get("/risk", portfolioHandler.Risk)
			r.Get("/accounts", portfolioHandler.Accounts)
			r.Get("/yearly", portfolioHandler.Yearly)
			r.Get("/dashboard", portfolioHandler.Dashboard)
			r.Get("/filters", portfolioHandler.Filters)
			r.Get("/diagnostics", portfolioHandler.Diagnostics)
			r.Get("/transactions", portfolioHandler.Transactions)
			r.Get("/transactions.csv", portfolioHandler.TransactionsCSV)
			r.Get("/report", portfolioHandler.Report)
			r.Post("/reload", portfolioHandler.Reload)
			r.Post("/revalue", portfolioHandler.Revalue)
		})
	})

	return r
}
