// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"brandpulse/internal/adapter/storage"
	"brandpulse/internal/config"
	"brandpulse/internal/server/handlers"
	"brandpulse/internal/service/analysis"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	runTimeout time.Duration,
	natsConn *nats.Conn,
	eventsTopic string,
	runner *analysis.Service,
	store *storage.ReportStore,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	analysisHandler := handlers.NewAnalysisHandler(runner, store, runTimeout)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Analysis runs API
			r.Route("/analyses", func(r chi.Router) {
				r.Post("/", analysisHandler.StartAnalysis)
				r.Get("/{id}", analysisHandler.GetRun)
				r.Get("/{id}/report", analysisHandler.GetRunReport)
			})

			// Reports API
			r.Route("/reports", func(r chi.Router) {
				r.Get("/", analysisHandler.ListReports)
				r.Get("/{id}", analysisHandler.GetReport)
				r.Get("/{id}/pdf", analysisHandler.GetReportPDF)
			})

			// Region catalog
			r.Get("/regions", analysisHandler.ListRegions)
		})
	})

	// WebSocket endpoint for run progress streaming
	router.Get("/ws/analyses/{id}", handlers.RunProgressHandler(natsConn, eventsTopic))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
