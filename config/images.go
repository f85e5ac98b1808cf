package config

import (
	"fmt"
	"time"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/images"
)

// ImagesConfig enables vehicle thumbnail lookups. They are off by default.
type ImagesConfig struct {
	Enabled bool          `json:"enabled"`
	BaseURL string        `json:"base_url"`
	RPS     float64       `json:"rps"`
	Burst   int           `json:"burst"`
	Timeout time.Duration `json:"timeout"`
}

// SetDefaults applies sane defaults.
func (c *ImagesConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = images.DefaultBaseURL
	}
}

// Validate checks the rate settings.
func (c ImagesConfig) Validate() error {
	if c.RPS < 0 || c.Burst < 0 {
		return fmt.Errorf("rps and burst must not be negative")
	}
	return nil
}

// Client returns the images client configuration.
func (c ImagesConfig) Client() images.Config {
	return images.Config{BaseURL: c.BaseURL, RPS: c.RPS, Burst: c.Burst, Timeout: c.Timeout}
}
