package config

import (
	"fmt"
	"time"
)

// HTTPServerConfig configures the public API listener.
type HTTPServerConfig struct {
	Port                int `env:"PORT" yaml:"port" default:"5000"`
	ReadTimeoutSeconds  int `env:"HTTP_READ_TIMEOUT_SECONDS" yaml:"read_timeout_seconds" default:"15"`
	// Chat requests may make two sequential completion calls.
	WriteTimeoutSeconds int `env:"HTTP_WRITE_TIMEOUT_SECONDS" yaml:"write_timeout_seconds" default:"75"`
	IdleTimeoutSeconds  int `env:"HTTP_IDLE_TIMEOUT_SECONDS" yaml:"idle_timeout_seconds" default:"60"`
	MaxHeaderBytes      int `env:"HTTP_MAX_HEADER_BYTES" yaml:"max_header_bytes" default:"1048576"`
}

func (h HTTPServerConfig) Validate() error {
	if h.Port < 1 || h.Port > 65535 {
		return fmt.Errorf("http port must be between 1-65535, got %d", h.Port)
	}
	return nil
}

func (h HTTPServerConfig) ReadTimeout() time.Duration {
	return time.Duration(h.ReadTimeoutSeconds) * time.Second
}

func (h HTTPServerConfig) WriteTimeout() time.Duration {
	return time.Duration(h.WriteTimeoutSeconds) * time.Second
}

func (h HTTPServerConfig) IdleTimeout() time.Duration {
	return time.Duration(h.IdleTimeoutSeconds) * time.Second
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" yaml:"metrics_enabled" default:"false"`
	Port    int  `env:"METRICS_PORT" yaml:"metrics_port" default:"9090"`
}

func (m MetricsConfig) Validate() error {
	if m.Enabled && (m.Port < 1 || m.Port > 65535) {
		return fmt.Errorf("metrics port must be between 1-65535, got %d", m.Port)
	}
	return nil
}
