// Package factory holds the generic registry behind the pluggable parts of
// the service. The compatibility store (memory, sqlite, postgres) and the
// metrics sinks (prometheus, influx) are each selected by a type name from
// configuration, and their settings arrive as a raw map.
//
// A factory decodes that map with Decode and returns the implementation:
//
//	reg := factory.NewRegistry[compat.Store]()
//	_ = reg.Register("sqlite", func(conf map[string]any) (compat.Store, error) {
//	    var c struct {
//	        Path string `json:"path"`
//	    }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return compatdb.NewSQLiteStore(c.Path)
//	})
//	store, err := reg.Create(factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": "compat.db"}})
//
// Decode is weakly typed so values set through K_ environment overrides,
// which are always strings, still fill int, bool and duration fields.
package factory
