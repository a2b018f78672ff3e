package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/notam-feed-service/internal/domain"
	"github.com/couchcryptid/notam-feed-service/internal/observability"
	"github.com/couchcryptid/notam-feed-service/internal/pipeline"
)

// Dashboard is the application surface served by the API.
// *pipeline.Pipeline implements it.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Views(q pipeline.Query) domain.Views
	Records(q pipeline.Query) []domain.Notam
	Notam(id string) (domain.Notam, bool)
	Current() domain.AppState
	StateViews() domain.Views
	Fetch(ctx context.Context, criteria domain.FilterCriteria) pipeline.FetchResult
	ArchiveExport(ctx context.Context, q pipeline.Query) (pipeline.ExportResult, error)
	Sources() []domain.SourceStatus
}

// Options configures the API. A zero RateLimit disables rate limiting.
type Options struct {
	Regions   []domain.Region
	RateLimit float64
	RateBurst int
	Clock     clockwork.Clock
}

// Server exposes health, readiness, metrics and the NOTAM API.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	regions    []domain.Region
	clock      clockwork.Clock
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api/v1 routes.
func NewServer(addr string, dash Dashboard, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Server {
	r := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:    dash,
		regions: opts.Regions,
		clock:   opts.Clock,
		logger:  logger,
		metrics: metrics,
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.RateBurst, 1))
	}

	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(dash)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(s.instrument, s.rateLimit)
	api.HandleFunc("/notams", s.handleFeed).Methods(http.MethodGet)
	api.HandleFunc("/notams/risk", s.handleRisk).Methods(http.MethodGet)
	api.HandleFunc("/notams/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/notams/routes", s.handleRoutes).Methods(http.MethodGet)
	api.HandleFunc("/notams/raw", s.handleRaw).Methods(http.MethodGet)
	api.HandleFunc("/notams/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/notams/export.csv", s.handleExportCSV).Methods(http.MethodGet)
	api.HandleFunc("/notams/print.pdf", s.handlePrint).Methods(http.MethodGet)
	// NOTAM IDs contain a slash (A1234/25); registered after the fixed routes.
	api.HandleFunc("/notams/{id:.+}", s.handleNotam).Methods(http.MethodGet)
	api.HandleFunc("/fetch", s.handleFetch).Methods(http.MethodPost)
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/exports", s.handleArchiveExport).Methods(http.MethodPost)
	api.HandleFunc("/sources", s.handleSources).Methods(http.MethodGet)
	api.HandleFunc("/regions", s.handleRegions).Methods(http.MethodGet)
	api.HandleFunc("/regions/{name}", s.handleRegion).Methods(http.MethodGet)

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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
