// Package httpmiddleware assembles the chi middleware stack shared by the
// concierge HTTP surfaces.
package httpmiddleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/secure"

	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
	"github.com/lewisedginton/teambuilder_concierge/pkg/metrics"
)

// Config selects and parameterises middleware. Zero-valued optional pieces
// are skipped.
type Config struct {
	Logger   logger.Logger
	Metrics  *metrics.Metrics
	CORS     *CORSConfig
	Security *secure.Options

	// Recovery replaces chi's Recoverer when set.
	Recovery func(http.Handler) http.Handler

	Timeout      time.Duration
	MaxBodyBytes int64
	Compress     bool
	Heartbeat    string
}

// DefaultConfig is the production stack without a logger or metrics.
func DefaultConfig() Config {
	c := DefaultCORSConfig()
	return Config{
		CORS:         &c,
		Timeout:      60 * time.Second,
		MaxBodyBytes: 1 << 20,
		Compress:     true,
		Heartbeat:    "/ping",
	}
}

// ApplyToRouter installs the stack on router, outermost first: correlation
// ID and request log, metrics, security headers, real IP, recovery, CORS,
// body limit, timeout, compression, heartbeat.
func ApplyToRouter(router chi.Router, cfg Config) {
	if cfg.Logger != nil {
		router.Use(cfg.Logger.HTTPMiddleware)
	} else {
		router.Use(CorrelationID)
	}
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.HTTPMiddleware())
	}

	router.Use(Security(cfg.Security))
	router.Use(middleware.RealIP)

	if cfg.Recovery != nil {
		router.Use(cfg.Recovery)
	} else {
		router.Use(middleware.Recoverer)
	}

	if cfg.CORS != nil {
		router.Use(CORS(*cfg.CORS))
	}
	if cfg.MaxBodyBytes > 0 {
		router.Use(MaxBodySize(cfg.MaxBodyBytes))
	}
	if cfg.Timeout > 0 {
		router.Use(middleware.Timeout(cfg.Timeout))
	}
	if cfg.Compress {
		router.Use(middleware.Compress(5))
	}
	if cfg.Heartbeat != "" {
		router.Use(middleware.Heartbeat(cfg.Heartbeat))
	}
}

// CorrelationID tags the request context when no logger middleware does.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, id := logger.EnsureHTTPCorrelationID(r)
		w.Header().Set(logger.CorrelationIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// MaxBodySize caps request bodies at n bytes.
func MaxBodySize(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
