package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/llm"
	"github.com/dgallion1/docsum/internal/pipeline"
)

// Server is the HTTP API server for docsum.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	guard        *llm.Guard
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, guard *llm.Guard, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		guard:        guard,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints when DOCSUM_API_KEY is set.
	r.Group(func(r chi.Router) {
		if s.cfg.DocsumAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.DocsumAPIKey, s.log))
		}

		r.Get("/api/options", s.handleOptions)
		r.Get("/api/stats/llm", s.handleLLMStats)

		r.Post("/api/sessions", s.handleCreateSession)
		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/export/{format}", s.handleExport)

			r.With(RequireModel(s.guard)).Post("/summarize", s.handleSummarize)
			r.With(RequireModel(s.guard)).Post("/ask", s.handleAsk)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"model":           s.guard.Model(),
		"model_available": s.guard.Available(),
		"sessions":        s.orchestrator.Sessions().Len(),
		"queue_depth":     s.orchestrator.QueueDepth(),
	})
}
