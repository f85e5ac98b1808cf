package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/factory"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/metrics"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/mqtt"
)

// Config is the root configuration of the service and the CLI.
type Config struct {
	Store     factory.ModuleConfig `json:"store"`
	Metrics   metrics.Config       `json:"metrics"`
	Audit     AuditConfig          `json:"audit"`
	Sentry    SentryConfig         `json:"sentry"`
	MQTT      mqtt.Config          `json:"mqtt"`
	HTTP      HTTPConfig           `json:"http"`
	Images    ImagesConfig         `json:"images"`
	Planner   PlannerConfig        `json:"planner"`
	Recommend RecommendConfig      `json:"recommend"`
}

// Load reads a YAML or JSON file and applies K_ prefixed environment
// overrides, e.g. K_HTTP__ADDR=:9000. An empty path loads defaults and the
// environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills unset sections.
func (c *Config) SetDefaults() {
	if c.Store.Type == "" {
		c.Store.Type = "memory"
	}
	c.Audit.SetDefaults()
	c.HTTP.SetDefaults()
	c.Images.SetDefaults()
	c.Recommend.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.Images.Validate(); err != nil {
		return fmt.Errorf("images: %w", err)
	}
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// MQTTEnabled reports whether plans are published.
func (c Config) MQTTEnabled() bool { return c.MQTT.Broker != "" }
