package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/xlsx"
	"github.com/couchcryptid/quake-dashboard/internal/analysis"
	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// Dashboard renders pages and the data behind them.
type Dashboard interface {
	Render(ctx context.Context, slug string, params url.Values) (*dashboard.View, error)
	Markers(ctx context.Context) (*geojson.FeatureCollection, error)
	Report(ctx context.Context, column string) (analysis.Report, error)
}

// Server exposes the dashboard pages plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the page, marker, export, /healthz,
// /readyz, and /metrics routes.
func NewServer(addr string, dash Dashboard, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:   dash,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET "+dashboard.MarkersURL, s.handleMarkers)
	mux.HandleFunc("GET "+dashboard.ExportURL, s.handleExport)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

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

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	slug := q.Get(dashboard.ParamPage)
	if slug == "" {
		http.Redirect(w, r, dashboard.PageURL(dashboard.DefaultPage), http.StatusFound)
		return
	}

	v, err := s.dash.Render(r.Context(), slug, q)
	if errors.Is(err, dashboard.ErrUnknownPage) {
		s.writeHTML(w, http.StatusNotFound, notFoundData(slug))
		return
	}
	if err != nil {
		s.logger.Error("page render failed", "page", slug, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.writeHTML(w, http.StatusOK, newPageData(v))
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	fc, err := s.dash.Markers(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		s.logger.Error("encode markers failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck // client went away
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	report, err := s.dash.Report(r.Context(), r.URL.Query().Get(dashboard.ParamColumn))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := xlsx.Write(&buf, report); err != nil {
		s.logger.Error("workbook export failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="earthquake-summary.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

// writeError maps dataset errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDatasetNotFound):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, domain.ErrMissingColumns):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrNotEnoughData):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.logger.Error("request failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// writeHTML renders into a buffer first so a template failure never sends a
// partial page.
func (s *Server) writeHTML(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := layout.ExecuteTemplate(&buf, "base", data); err != nil {
		s.logger.Error("template execution failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}
