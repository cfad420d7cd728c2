package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/corepassmd/internal/config"
	"github.com/dgallion1/corepassmd/internal/coreid"
	"github.com/dgallion1/corepassmd/internal/pipeline"
)

// Server is the HTTP API server for corepassmd.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	defaults     coreid.Options
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. defaults are the rewrite
// options used when a request does not override them.
func NewServer(orch *pipeline.Orchestrator, defaults coreid.Options, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		defaults:     defaults,
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

		r.Post("/api/render", s.handleRender)
		r.Post("/api/validate", s.handleValidate)

		r.Post("/api/jobs", s.handleSubmitJobs)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/result", s.handleJobResult)

		r.Get("/api/stats/render", s.handleRenderStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
