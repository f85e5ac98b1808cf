package config

import (
	"fmt"
	"time"
)

// HTTPConfig configures the JSON API server.
type HTTPConfig struct {
	Addr string `json:"addr"`
	// MetricsAddr serves /metrics on a dedicated listener when set.
	// Otherwise /metrics is mounted on the API server.
	MetricsAddr string `json:"metrics_addr"`
	// Token protects the API with "Authorization: Bearer <token>" when set.
	Token        string        `json:"token"`
	MaxBodyBytes int64         `json:"max_body_bytes"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 10 << 20
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
}

// Validate checks mandatory fields.
func (c HTTPConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must not be negative")
	}
	return nil
}
