package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(name string) Check {
	return NewCheckFunc(name, func(context.Context) error { return nil })
}

func failing(name string) Check {
	return NewCheckFunc(name, func(context.Context) error { return errors.New(name + " down") })
}

func TestNoChecksIsHealthy(t *testing.T) {
	status, err := New().Readiness(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Empty(t, status.Checks)
}

func TestReadinessAggregatesSortedResults(t *testing.T) {
	c := New()
	c.AddReadinessCheck(ok("provider"))
	c.AddReadinessCheck(failing("directory"))

	status, err := c.Readiness(context.Background())
	require.Error(t, err)
	assert.False(t, status.Healthy)
	assert.Equal(t, []string{"directory"}, status.Failed())
	require.Len(t, status.Checks, 2)
	assert.Equal(t, "directory", status.Checks[0].Name)
	assert.Equal(t, "directory down", status.Checks[0].Error)
}

func TestFailureThreshold(t *testing.T) {
	c := New(WithFailureThreshold(3))
	c.AddLivenessCheck(failing("flaky"))

	for i := 0; i < 2; i++ {
		status, err := c.Liveness(context.Background())
		require.NoError(t, err, "attempt %d", i)
		assert.True(t, status.Healthy)
	}

	status, err := c.Liveness(context.Background())
	require.Error(t, err)
	assert.False(t, status.Healthy)
}

func TestSuccessResetsFailures(t *testing.T) {
	fail := true
	c := New(WithFailureThreshold(2))
	c.AddLivenessCheck(NewCheckFunc("toggle", func(context.Context) error {
		if fail {
			return errors.New("nope")
		}
		return nil
	}))

	_, err := c.Liveness(context.Background())
	require.NoError(t, err)

	fail = false
	_, err = c.Liveness(context.Background())
	require.NoError(t, err)

	fail = true
	_, err = c.Liveness(context.Background())
	assert.NoError(t, err, "counter should restart after a success")
}

func TestCheckTimeout(t *testing.T) {
	c := New(WithTimeout(20 * time.Millisecond))
	c.AddReadinessCheck(NewCheckFunc("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	status, err := c.Readiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, status.Checks[0].Error, context.DeadlineExceeded.Error())
}

func TestHandlers(t *testing.T) {
	c := New()
	c.AddLivenessCheck(ok("process"))
	c.AddReadinessCheck(failing("directory"))

	live := httptest.NewRecorder()
	c.LivenessHandler().ServeHTTP(live, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, live.Code)
	assert.Equal(t, "application/json", live.Header().Get("Content-Type"))

	summary := httptest.NewRecorder()
	c.SummaryHandler("1.2.3").ServeHTTP(summary, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, summary.Code)

	var body Response
	require.NoError(t, json.NewDecoder(summary.Body).Decode(&body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "error", body.Checks["directory"].Status)
	assert.Contains(t, body.Message, "directory")
}
