// Package http exposes the analysis report server.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/fars-analysis/internal/analysis"
	"github.com/couchcryptid/fars-analysis/internal/dataset"
	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/geoplot"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// SummaryProvider builds a month × year pivot for the requested years.
type SummaryProvider interface {
	Summarize(years []int) (*domain.SummaryTable, error)
}

// StateMapper renders a PNG point map for one state and year.
type StateMapper interface {
	MapState(stateNum, year int, w io.Writer) error
}

// Server exposes health, readiness, metrics, and report HTTP endpoints.
type Server struct {
	httpServer *http.Server
	summarizer SummaryProvider
	mapper     StateMapper
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /v1/summary, and /v1/map routes.
func NewServer(addr string, ready ReadinessChecker, summarizer SummaryProvider, mapper StateMapper, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		summarizer: summarizer,
		mapper:     mapper,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/summary", s.handleSummary)
	mux.HandleFunc("GET /v1/map", s.handleMap)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// summaryCell is one populated pivot cell. Absent (month, year) combinations
// are simply not listed, preserving the sparse aggregation semantics on the
// wire.
type summaryCell struct {
	Month int `json:"month"`
	Year  int `json:"year"`
	Count int `json:"count"`
}

type summaryResponse struct {
	Years       []int         `json:"years"`
	Months      []int         `json:"months"`
	Cells       []summaryCell `json:"cells"`
	Total       int           `json:"total"`
	GeneratedAt time.Time     `json:"generated_at"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	years, err := parseYears(r.URL.Query().Get("years"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	table, err := s.summarizer.Summarize(years)
	if err != nil {
		if errors.Is(err, analysis.ErrNoData) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Error("summary failed", "years", years, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "summary failed"})
		return
	}

	resp := summaryResponse{
		Years:       table.Years(),
		Months:      table.Months(),
		Cells:       []summaryCell{},
		Total:       table.Total(),
		GeneratedAt: table.GeneratedAt,
	}
	for _, month := range table.Months() {
		for _, year := range table.Years() {
			if n, ok := table.Count(month, year); ok {
				resp.Cells = append(resp.Cells, summaryCell{Month: month, Year: year, Count: n})
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	stateNum, err := strconv.Atoi(r.URL.Query().Get("state"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "state must be an integer"})
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "year must be an integer"})
		return
	}

	// Render into a buffer first so failures still produce a JSON error
	// instead of a truncated image.
	var buf bytes.Buffer
	if err := s.mapper.MapState(stateNum, year, &buf); err != nil {
		var invalid *geoplot.InvalidStateError
		switch {
		case errors.As(err, &invalid), errors.Is(err, dataset.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, dataset.ErrParse):
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		default:
			s.logger.Error("map render failed", "state", stateNum, "year", year, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "map render failed"})
		}
		return
	}

	if buf.Len() == 0 {
		// Valid state with nothing to plot.
		writeJSON(w, http.StatusOK, map[string]string{"status": "no accidents to plot"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // best-effort image response
}

func parseYears(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("years query parameter is required, e.g. years=2015,2016")
	}

	var years []int
	for _, part := range strings.Split(raw, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.New("years must be a comma-separated list of integers")
		}
		years = append(years, year)
	}
	return years, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
