// Package server exposes the pipeline's chart tables over HTTP for the
// dashboard: JSON endpoints per view plus the embedded dashboard page.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/pable/go-qb-metrics/internal/config"
	"github.com/pable/go-qb-metrics/internal/pipeline"
)

// Server serves the dashboard and its chart-data API.
type Server struct {
	pipeline *pipeline.Pipeline
	log      *slog.Logger
	http     *http.Server
}

// New builds a Server around the given pipeline.
func New(cfg *config.Config, p *pipeline.Pipeline, log *slog.Logger) *Server {
	s := &Server{pipeline: p, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleDashboard)
	r.Route("/api/seasons/{season}", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/totals", s.handleTotals)
		r.Get("/advanced", s.handleAdvanced)
		r.Get("/quarterbacks", s.handleQuarterbacks)
	})

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// seasonParam parses the {season} path segment.
func seasonParam(r *http.Request) (int, bool) {
	season, err := strconv.Atoi(chi.URLParam(r, "season"))
	if err != nil || season < 1999 {
		return 0, false
	}
	return season, true
}

// tableResponse is the envelope for every chart-data endpoint. Highlight is
// the pass-through QB selection: it never filters rows, the client only uses
// it to dim the rest of the chart.
type tableResponse struct {
	Season    int    `json:"season"`
	Highlight string `json:"highlight,omitempty"`
	Rows      any    `json:"rows"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonParam(r)
	if !ok {
		s.renderBadSeason(w, r)
		return
	}
	rows, err := s.pipeline.Summaries(r.Context(), season)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, tableResponse{Season: season, Highlight: r.URL.Query().Get("qb"), Rows: rows})
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonParam(r)
	if !ok {
		s.renderBadSeason(w, r)
		return
	}
	rows, err := s.pipeline.Totals(r.Context(), season)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, tableResponse{Season: season, Highlight: r.URL.Query().Get("qb"), Rows: rows})
}

func (s *Server) handleAdvanced(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonParam(r)
	if !ok {
		s.renderBadSeason(w, r)
		return
	}
	rows, err := s.pipeline.Advanced(r.Context(), season, r.URL.Query().Get("qb"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, tableResponse{Season: season, Highlight: r.URL.Query().Get("qb"), Rows: rows})
}

func (s *Server) handleQuarterbacks(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonParam(r)
	if !ok {
		s.renderBadSeason(w, r)
		return
	}
	names, err := s.pipeline.Passers(r.Context(), season)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, tableResponse{Season: season, Rows: names})
}

type errResponse struct {
	Error string `json:"error"`
}

func (s *Server) renderBadSeason(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errResponse{Error: "invalid season"})
}

// renderError maps the pipeline's error taxonomy onto HTTP: a season with no
// data is a 404 the dashboard turns into a placeholder, a feed failure is a
// 502, anything else a 500. Never a crash.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var noData *pipeline.NoDataError
	if errors.As(err, &noData) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errResponse{Error: noData.Error()})
		return
	}
	var srcErr *pipeline.SourceError
	if errors.As(err, &srcErr) {
		s.log.Error("play source failure", "error", err)
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, errResponse{Error: "play-by-play source unavailable"})
		return
	}
	s.log.Error("request failed", "error", err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, errResponse{Error: "internal error"})
}

// requestLogger is a minimal slog access-log middleware.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
