package logger

import (
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// HTTPMiddleware logs one entry per request once the handler returns.
func (l *logger) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r, id := EnsureHTTPCorrelationID(r)
		w.Header().Set(CorrelationIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := l.WithFields(
			CorrelationIDField(id),
			StringField("http_method", r.Method),
			StringField("http_path", r.URL.Path),
			StringField("client_ip", r.RemoteAddr),
			IntField("http_status", rec.status),
			IntField("response_bytes", rec.bytes),
			DurationField("duration", time.Since(start)),
		)
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("HTTP request failed")
			return
		}
		entry.Info("HTTP request handled")
	})
}
