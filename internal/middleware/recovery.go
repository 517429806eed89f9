// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// ServiceUnavailableBody is written when a handler panics.
const ServiceUnavailableBody = `{"error":"AI service unavailable"}`

// RecoveryConfig holds configuration for the recovery middleware
type RecoveryConfig struct {
	Logger           logger.Logger
	EnableStackTrace bool
	ResponseMessage  string
	StatusCode       int
}

// DefaultRecoveryConfig answers a panic with a JSON 503.
func DefaultRecoveryConfig(log logger.Logger) RecoveryConfig {
	return RecoveryConfig{
		Logger:           log,
		EnableStackTrace: true,
		ResponseMessage:  ServiceUnavailableBody,
		StatusCode:       http.StatusServiceUnavailable,
	}
}

// Recovery returns a middleware that recovers from panics and logs them
func Recovery(config RecoveryConfig) func(http.Handler) http.Handler {
	if config.Logger == nil {
		config.Logger = logger.NewNop()
	}
	if config.StatusCode == 0 {
		config.StatusCode = http.StatusServiceUnavailable
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					handlePanic(w, r, err, config)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func handlePanic(w http.ResponseWriter, r *http.Request, err any, config RecoveryConfig) {
	var stackTrace string
	if config.EnableStackTrace {
		stackTrace = string(debug.Stack())
	}
	logPanic(r, err, stackTrace, config.Logger)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Connection", "close")
	w.WriteHeader(config.StatusCode)
	if config.ResponseMessage != "" {
		_, _ = w.Write([]byte(config.ResponseMessage))
	}
}

func logPanic(r *http.Request, panicErr any, stackTrace string, log logger.Logger) {
	fields := []logger.LogField{
		logger.StringField("panic_error", fmt.Sprintf("%v", panicErr)),
		logger.StringField("method", r.Method),
		logger.StringField("path", r.URL.Path),
		logger.StringField("client_ip", clientIP(r)),
		logger.StringField("user_agent", r.UserAgent()),
	}
	if stackTrace != "" {
		fields = append(fields, logger.StringField("stack_trace", stackTrace))
	}
	if r.ContentLength > 0 {
		fields = append(fields, logger.Field("content_length", r.ContentLength))
	}

	logger.FromContext(r.Context(), log).Error("HTTP request panic recovered", fields...)
}

// clientIP prefers proxy headers over RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
