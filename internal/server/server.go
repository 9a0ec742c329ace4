package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mallmetrics/analytics-cli/internal/pipeline"
)

// RebuildFunc re-runs the pipeline to produce a fresh result for reloads.
type RebuildFunc func(ctx context.Context) (*pipeline.Result, error)

// Server serves the analytics snapshot. All data endpoints answer 503 until
// the first snapshot is swapped in; they never surface a panic or an
// unhandled error to a client.
type Server struct {
	snap    atomic.Pointer[Snapshot]
	rebuild RebuildFunc
}

// New creates a Server with no snapshot loaded. rebuild may be nil, which
// disables the reload endpoint.
func New(rebuild RebuildFunc) *Server {
	return &Server{rebuild: rebuild}
}

// Swap atomically replaces the served snapshot so concurrent requests see
// either the old or the new tables, never a torn mix.
func (s *Server) Swap(res *pipeline.Result) {
	s.snap.Store(NewSnapshot(res))
}

// snapshot returns the current snapshot, or nil before the first load.
func (s *Server) snapshot() *Snapshot {
	return s.snap.Load()
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/filters", s.handleFilters)
		r.Get("/charts/profitability", s.handleProfitabilityChart)
		r.Get("/charts/seasonal", s.handleSeasonalChart)
		r.Get("/charts/payment", s.handlePaymentChart)
		r.Get("/charts/regional", s.handleRegionalChart)
		r.Get("/charts/segments", s.handleSegmentsChart)
		r.Get("/data/{table}", s.handleData)
		r.Get("/forecast/plot", s.handleForecastPlot)
		r.Post("/reload", s.handleReload)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.rebuild == nil {
		respondError(w, http.StatusNotImplemented, "reload not configured")
		return
	}
	res, err := s.rebuild(r.Context())
	if err != nil {
		zap.L().Error("server: reload failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "reload failed")
		return
	}
	s.Swap(res)
	respondJSON(w, http.StatusOK, map[string]string{"status": "reloaded", "run_id": res.RunID})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondUnavailable is the uniform "snapshot not loaded" answer.
func respondUnavailable(w http.ResponseWriter) {
	respondError(w, http.StatusServiceUnavailable, "data not loaded")
}
