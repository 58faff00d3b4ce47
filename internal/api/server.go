// Package api exposes the content store over HTTP. Routes are versioned
// under /api/v1 and return JSON bodies; errors carry the machine-readable
// code of the underlying failure so clients can branch without parsing
// messages.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/linguaviz/linguaviz/pkg/visual"
)

// Server wires the content store service into an HTTP handler tree.
type Server struct {
	svc    *visual.Service
	logger *log.Logger
}

// NewServer creates an HTTP server facade over the given service.
func NewServer(svc *visual.Service, logger *log.Logger) *Server {
	return &Server{svc: svc, logger: logger}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/flowcharts", func(r chi.Router) {
			r.Post("/", s.createFlowchart)
			r.Get("/", s.listFlowcharts)
			r.Get("/{flowchartID}", s.getFlowchart)
			r.Delete("/{flowchartID}", s.deleteFlowchart)
			r.Post("/{flowchartID}/nodes", s.addNode)
			r.Post("/{flowchartID}/connections", s.connectNodes)
		})

		r.Route("/visualizations", func(r chi.Router) {
			r.Post("/", s.createVisualization)
			r.Get("/", s.listVisualizations)
			r.Delete("/{visualizationID}", s.deleteVisualization)
		})

		r.Route("/vocabulary", func(r chi.Router) {
			r.Post("/", s.createVocabularyVisual)
			r.Get("/", s.listVocabularyVisuals)
			r.Delete("/{visualID}", s.deleteVocabularyVisual)
		})

		r.Route("/pronunciation", func(r chi.Router) {
			r.Post("/", s.createPronunciationGuide)
			r.Get("/", s.listPronunciationGuides)
			r.Get("/{guideID}", s.getPronunciationGuide)
			r.Delete("/{guideID}", s.deletePronunciationGuide)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// requestLogger records one line per request after it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
