package plugins

import (
	"context"
	"fmt"
	"os"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/factory"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/compatdb"
)

func init() {
	RegisterStore("memory", func(ctx context.Context, conf map[string]any) (compat.Store, error) {
		var c struct {
			Fixtures string `json:"fixtures"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return newMemoryStore(ctx, c.Fixtures)
	})
	RegisterStore("sqlite", func(_ context.Context, conf map[string]any) (compat.Store, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "compat.db"
		}
		s, err := compatdb.NewSQLiteStore(c.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	RegisterStore("postgres", func(ctx context.Context, conf map[string]any) (compat.Store, error) {
		var c compatdb.PostgresConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.DSN == "" {
			return nil, fmt.Errorf("postgres store requires dsn")
		}
		s, err := compatdb.NewPostgresStore(ctx, c)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// newMemoryStore seeds an in-memory store from a JSON fixture file.
func newMemoryStore(ctx context.Context, path string) (compat.Store, error) {
	s := compat.NewMemoryStore()
	if path == "" {
		return s, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()
	recs, err := compat.DecodeRecords(f)
	if err != nil {
		return nil, fmt.Errorf("decode fixtures %s: %w", path, err)
	}
	for adapter, group := range compat.ByAdapter(recs) {
		if err := s.Replace(ctx, adapter, group); err != nil {
			return nil, err
		}
	}
	return s, nil
}
