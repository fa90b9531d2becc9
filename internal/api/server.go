package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docsight/internal/config"
	"github.com/dgallion1/docsight/internal/parser"
	"github.com/dgallion1/docsight/internal/pipeline"
	"github.com/dgallion1/docsight/internal/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docsight.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	deps         pipeline.Deps
	validator    *schema.Validator
	parserOpts   parser.Options
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. deps must be the same
// collaborators the orchestrator was built with.
func NewServer(orch *pipeline.Orchestrator, deps pipeline.Deps, validator *schema.Validator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		deps:         deps,
		validator:    validator,
		parserOpts:   parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext},
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/outline", s.handleOutline)

		r.Post("/api/analyze", s.handleAnalyze)
		r.Get("/api/analyze/{jobID}/status", s.handleAnalyzeStatus)
		r.Get("/api/analyses/{jobID}", s.handleGetAnalysis)
		r.Get("/api/analyses/{jobID}/search", s.handleSearchAnalysis)

		r.Get("/api/documents", s.handleListDocuments)
		r.Delete("/api/documents/{hash}", s.handleDeleteDocument)

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
