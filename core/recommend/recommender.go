package recommend

import (
	"context"
	"slices"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// Recommender evaluates the decision table for one vehicle at a time. It is
// safe for concurrent use as long as the Finder is.
type Recommender struct {
	finder   compat.Finder
	adapters []AdapterOption
	fallback AdapterOption
	rules    []Rule
}

// New returns a Recommender using the default adapter priority and rules.
func New(f compat.Finder) *Recommender {
	adapters := DefaultAdapters()
	return NewWithRules(f, adapters, DefaultFallback(), DefaultRules(adapters))
}

// NewWithRules returns a Recommender evaluating a custom rule table. The
// fallback rule is applied when no rule fires.
func NewWithRules(f compat.Finder, adapters []AdapterOption, fallback AdapterOption, rules []Rule) *Recommender {
	return &Recommender{finder: f, adapters: slices.Clone(adapters), fallback: fallback, rules: slices.Clone(rules)}
}

// Recommend returns the recommendation for v. Missing or unmatched data
// degrades to the fallback; the only error is a failing lookup.
func (r *Recommender) Recommend(ctx context.Context, v model.VehicleDescriptor) (model.RecommendationResult, error) {
	res, _, err := r.Explain(ctx, v)
	return res, err
}

// Explain is Recommend plus the name of the rule that fired.
func (r *Recommender) Explain(ctx context.Context, v model.VehicleDescriptor) (model.RecommendationResult, string, error) {
	d := newDecision(ctx, r, v)
	for _, rule := range r.rules {
		res, ok, err := rule.Apply(d)
		if err != nil {
			return model.RecommendationResult{}, rule.Name, err
		}
		if ok {
			res.DevicePageURL = DevicePageURL(res.RecommendedDevice)
			return res, rule.Name, nil
		}
	}
	fallback := FallbackRule()
	res, _, err := fallback.Apply(d)
	if err != nil {
		return model.RecommendationResult{}, fallback.Name, err
	}
	res.DevicePageURL = DevicePageURL(res.RecommendedDevice)
	return res, fallback.Name, nil
}

// DevicePageURL returns the product page of a device.
func DevicePageURL(device string) string {
	switch device {
	case DeviceFMC650:
		return "https://www.teltonika-gps.com/products/trackers/professional/fmc650"
	case DeviceFMC150:
		return "https://wiki.teltonika-gps.com/view/FMC150"
	default:
		return ""
	}
}
