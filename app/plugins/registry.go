// Package plugins registers the pluggable compatibility store backends.
package plugins

import (
	"context"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/factory"
)

// StoreFactory builds a compatibility store from raw config.
type StoreFactory func(ctx context.Context, conf map[string]any) (compat.Store, error)

var stores = map[string]StoreFactory{}

// RegisterStore adds a store backend identified by name.
func RegisterStore(name string, f StoreFactory) { stores[name] = f }

// NewStore instantiates the configured store backend.
func NewStore(ctx context.Context, cfg factory.ModuleConfig) (compat.Store, error) {
	reg := factory.NewRegistry[compat.Store]()
	for name, f := range stores {
		f := f
		_ = reg.Register(name, func(conf map[string]any) (compat.Store, error) {
			return f(ctx, conf)
		})
	}
	return reg.Create(cfg)
}
