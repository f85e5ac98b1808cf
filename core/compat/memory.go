package compat

import (
	"context"
	"fmt"
	"sync"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

type key struct {
	adapter, brand, model string
}

// MemoryStore keeps the compatibility table in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[key][]model.CompatibilityRecord
}

// NewMemoryStore returns a store seeded with recs.
func NewMemoryStore(recs ...model.CompatibilityRecord) *MemoryStore {
	s := &MemoryStore{rows: make(map[key][]model.CompatibilityRecord)}
	for _, r := range recs {
		s.add(r)
	}
	return s
}

func (s *MemoryStore) add(r model.CompatibilityRecord) {
	r.Brand = Normalize(r.Brand)
	r.Model = Normalize(r.Model)
	k := key{r.Adapter, r.Brand, r.Model}
	s.rows[k] = append(s.rows[k], r)
}

// FindCompatible returns at most MaxResults records for the exact triple.
func (s *MemoryStore) FindCompatible(ctx context.Context, adapter, brand, mdl string) ([]model.CompatibilityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.rows[key{adapter, Normalize(brand), Normalize(mdl)}]
	if len(recs) > MaxResults {
		recs = recs[:MaxResults]
	}
	out := make([]model.CompatibilityRecord, len(recs))
	copy(out, recs)
	return out, nil
}

// Replace drops every record of adapter and stores recs instead.
func (s *MemoryStore) Replace(ctx context.Context, adapter string, recs []model.CompatibilityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, r := range recs {
		if r.Adapter != adapter {
			return fmt.Errorf("record for %s in %s replace", r.Adapter, adapter)
		}
		if err := r.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.rows {
		if k.adapter == adapter {
			delete(s.rows, k)
		}
	}
	for _, r := range recs {
		s.add(r)
	}
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
