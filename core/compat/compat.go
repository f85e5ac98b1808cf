// Package compat defines the compatibility lookup contract used by the
// recommender together with the year grammar of the adapter lists and an
// in-memory store. Stores only read; the table is refreshed out of band.
package compat

import (
	"context"
	"errors"
	"strings"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// Known adapter identifiers.
const (
	AdapterAllCAN300 = "ALL-CAN300"
	AdapterLVCAN200  = "LV-CAN200"
)

// MaxResults bounds the number of records a lookup returns.
const MaxResults = 50

// ErrUnavailable is wrapped by stores when the backing table cannot be
// reached. It distinguishes "unknown" from "verified absent" (an empty
// result with a nil error).
var ErrUnavailable = errors.New("compatibility store unavailable")

// Finder looks up the records stored for an exact adapter, brand and model.
// Brand and model are normalized by the implementation.
type Finder interface {
	FindCompatible(ctx context.Context, adapter, brand, model string) ([]model.CompatibilityRecord, error)
}

// Store is a Finder backed by a replaceable table.
type Store interface {
	Finder
	// Replace swaps every record of the given adapter.
	Replace(ctx context.Context, adapter string, recs []model.CompatibilityRecord) error
	Close() error
}

// FinderFunc adapts a function to the Finder interface.
type FinderFunc func(ctx context.Context, adapter, brand, model string) ([]model.CompatibilityRecord, error)

// FindCompatible calls f.
func (f FinderFunc) FindCompatible(ctx context.Context, adapter, brand, model string) ([]model.CompatibilityRecord, error) {
	return f(ctx, adapter, brand, model)
}

// Normalize trims and upper-cases a brand or model name.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// FirstFit returns the first record whose year range contains year.
func FirstFit(recs []model.CompatibilityRecord, year *int) (model.CompatibilityRecord, bool) {
	for _, r := range recs {
		if YearFits(year, r) {
			return r, true
		}
	}
	return model.CompatibilityRecord{}, false
}
