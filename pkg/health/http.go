package health

import (
	"encoding/json"
	"net/http"

	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// Response is the JSON body of every health endpoint.
type Response struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckStatus `json:"checks,omitempty"`
	Message string                 `json:"message,omitempty"`
}

type CheckStatus struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := c.Liveness(r.Context())
		c.write(w, "", status, err)
	}
}

func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := c.Readiness(r.Context())
		c.write(w, "", status, err)
	}
}

// SummaryHandler reports readiness together with the service version.
func (c *Checker) SummaryHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := c.Readiness(r.Context())
		c.write(w, version, status, err)
	}
}

func (c *Checker) write(w http.ResponseWriter, version string, status Status, err error) {
	resp := Response{Status: "ok", Version: version, Checks: make(map[string]CheckStatus, len(status.Checks))}
	code := http.StatusOK
	if !status.Healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
		if err != nil {
			resp.Message = err.Error()
		}
	}

	for _, res := range status.Checks {
		cs := CheckStatus{Status: "ok", Latency: res.Latency.String()}
		if !res.Healthy {
			cs.Status = "error"
			cs.Error = res.Error
		}
		resp.Checks[res.Name] = cs
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		c.log.Error("Failed to encode health response", logger.ErrorField(err))
	}
}
