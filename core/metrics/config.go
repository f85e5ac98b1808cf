package metrics

import "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}
