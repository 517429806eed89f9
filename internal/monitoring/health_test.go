package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/teambuilder_concierge/pkg/health"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type connector struct{ err error }

func (c connector) Ready() error { return c.err }

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantFailed []string
	}{
		{
			name: "all healthy",
			cfg:  Config{Directory: pinger{}, ProviderName: "gemini", TelegramConnector: connector{}},
		},
		{
			name:       "directory down",
			cfg:        Config{Directory: pinger{err: errors.New("connection refused")}, ProviderName: "claude"},
			wantFailed: []string{"directory"},
		},
		{
			name:       "no provider",
			cfg:        Config{Directory: pinger{}, ProviderName: "none"},
			wantFailed: []string{"provider"},
		},
		{
			name:       "telegram not polling",
			cfg:        Config{ProviderName: "openai", TelegramConnector: connector{err: errors.New("not started")}},
			wantFailed: []string{"telegram_connector"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := NewHealthMonitor(tt.cfg).Readiness(context.Background())
			if tt.wantFailed == nil {
				require.NoError(t, err)
				assert.True(t, status.Healthy)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantFailed, status.Failed())
		})
	}
}

func TestMarkShuttingDown(t *testing.T) {
	hm := NewHealthMonitor(Config{ProviderName: "gemini"})
	_, err := hm.Readiness(context.Background())
	require.NoError(t, err)

	hm.MarkShuttingDown()
	hm.MarkShuttingDown()

	status, err := hm.Readiness(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"shutdown"}, status.Failed())
}

func TestRoutes(t *testing.T) {
	r := chi.NewRouter()
	NewHealthMonitor(Config{Version: "0.3.0", Directory: pinger{}, ProviderName: "gemini"}).RegisterRoutes(r)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body health.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "0.3.0", body.Version)
	assert.Contains(t, body.Checks, "directory")
}
