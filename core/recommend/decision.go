package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// Match is the first year-fitting record found for an adapter.
type Match struct {
	Option AdapterOption
	Record model.CompatibilityRecord
}

// Decision holds the state of one evaluation. Adapter lookups are issued on
// first use and at most once.
type Decision struct {
	Vehicle model.VehicleDescriptor

	ctx      context.Context
	finder   compat.Finder
	adapters []AdapterOption
	fallback AdapterOption
	looked   bool
	matches  []Match
	lookups  int
}

func newDecision(ctx context.Context, r *Recommender, v model.VehicleDescriptor) *Decision {
	v.Make = strings.TrimSpace(v.Make)
	v.Model = strings.TrimSpace(v.Model)
	if v.Year != nil && *v.Year == 0 {
		v.Year = nil
	}
	return &Decision{Vehicle: v, ctx: ctx, finder: r.finder, adapters: r.adapters, fallback: r.fallback}
}

// Matches returns the fitting records of every adapter in priority order.
func (d *Decision) Matches() ([]Match, error) {
	if d.looked {
		return d.matches, nil
	}
	for _, opt := range d.adapters {
		d.lookups++
		recs, err := d.finder.FindCompatible(d.ctx, opt.Adapter, d.Vehicle.Make, d.Vehicle.Model)
		if err != nil {
			return nil, fmt.Errorf("find %s for %q: %w", opt.Adapter, d.Vehicle.Label(), err)
		}
		if rec, ok := compat.FirstFit(recs, d.Vehicle.Year); ok {
			d.matches = append(d.matches, Match{Option: opt, Record: rec})
		}
	}
	d.looked = true
	return d.matches, nil
}

// Match returns the fitting record for adapter, if any.
func (d *Decision) Match(adapter string) (Match, bool, error) {
	ms, err := d.Matches()
	if err != nil {
		return Match{}, false, err
	}
	for _, m := range ms {
		if m.Option.Adapter == adapter {
			return m, true, nil
		}
	}
	return Match{}, false, nil
}

// AllOptions renders every viable combination, or the fallback entry when
// nothing matched.
func (d *Decision) AllOptions() (string, error) {
	ms, err := d.Matches()
	if err != nil {
		return "", err
	}
	if len(ms) == 0 {
		return d.fallback.label() + " " + FallbackMarker, nil
	}
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = fmt.Sprintf("%s (%s)", m.Option.label(), m.Record.YearLabel())
	}
	return strings.Join(parts, optionSeparator), nil
}

// Lookups returns the number of compatibility queries issued so far.
func (d *Decision) Lookups() int { return d.lookups }
