package adapthttp

import (
	"net/http"

	"fitlog/internal/app"
	"fitlog/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionCookieName is the cookie carrying the raw session token.
const SessionCookieName = "fitlog_session"

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	sessions     *app.SessionService
	contexts     *app.ContextService
	measurements *app.MeasurementService
	tips         app.TipGenerator
	metrics      *metrics.Manager

	gatherer      prometheus.Gatherer
	secureCookies bool
}

// New creates a Server wired to the given application services. m may be nil.
func New(ss *app.SessionService, cs *app.ContextService, ms *app.MeasurementService, tg app.TipGenerator, m *metrics.Manager) *Server {
	return &Server{
		sessions:     ss,
		contexts:     cs,
		measurements: ms,
		tips:         tg,
		metrics:      m,
		gatherer:     prometheus.DefaultGatherer,
	}
}

// WithGatherer selects the registry served on /metrics.
func (s *Server) WithGatherer(g prometheus.Gatherer) *Server {
	s.gatherer = g
	return s
}

// WithSecureCookies marks the session cookie Secure, for TLS deployments.
func (s *Server) WithSecureCookies(secure bool) *Server {
	s.secureCookies = secure
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestMetrics)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleLoginForm).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/main", s.requireUser(s.handleMain)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/fitness-tip", s.requireUser(s.handleFitnessTip)).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)

	var h http.Handler = gzhttp.GzipHandler(r)
	h = withNoCache(h)
	h = withSecurityHeaders(h)
	h = s.panicRecovery(h)
	return s.logRequests(h)
}
