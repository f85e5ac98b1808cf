package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/metrics"
)

// PromSink records recommendation, lookup and plan metrics in Prometheus.
type PromSink struct {
	recommendations *prometheus.CounterVec
	lookups         *prometheus.HistogramVec
	planDays        prometheus.Gauge
	planCost        prometheus.Gauge
	planVehicles    *prometheus.GaugeVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	recs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "can_recommendations_total",
		Help: "Total number of device recommendations",
	}, []string{"device", "adapter", "fallback"})
	lookups := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "can_compat_lookup_seconds",
		Help:    "Duration of compatibility table lookups",
		Buckets: prometheus.DefBuckets,
	}, []string{"adapter", "outcome"})
	days := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "deployment_plan_total_days",
		Help: "Total installation days of the last plan",
	})
	cost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "deployment_plan_total_cost",
		Help: "Total cost of the last plan",
	})
	vehicles := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "deployment_plan_vehicles",
		Help: "Vehicles per recommended device in the last plan",
	}, []string{"device"})

	var err error
	if recs, err = register(reg, recs); err != nil {
		return nil, err
	}
	if lookups, err = register(reg, lookups); err != nil {
		return nil, err
	}
	if days, err = register(reg, days); err != nil {
		return nil, err
	}
	if cost, err = register(reg, cost); err != nil {
		return nil, err
	}
	if vehicles, err = register(reg, vehicles); err != nil {
		return nil, err
	}
	return &PromSink{
		recommendations: recs,
		lookups:         lookups,
		planDays:        days,
		planCost:        cost,
		planVehicles:    vehicles,
	}, nil
}

// register returns the already registered collector when c was registered
// before, so several sinks can share the default registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRecommendation increments the recommendation counter.
func (s *PromSink) RecordRecommendation(ev coremetrics.RecommendationEvent) error {
	adapter := ev.Adapter
	if adapter == "" {
		adapter = "none"
	}
	s.recommendations.WithLabelValues(ev.Device, adapter, strconv.FormatBool(ev.Fallback)).Inc()
	return nil
}

// RecordLookup observes the lookup duration labelled by outcome.
func (s *PromSink) RecordLookup(ev coremetrics.LookupEvent) error {
	outcome := "miss"
	switch {
	case ev.Failed:
		outcome = "error"
	case ev.Matches > 0:
		outcome = "hit"
	}
	s.lookups.WithLabelValues(ev.Adapter, outcome).Observe(ev.Duration.Seconds())
	return nil
}

// RecordPlan sets the plan gauges to the values of the latest plan.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.planDays.Set(float64(ev.TotalDays))
	s.planCost.Set(ev.TotalCost)
	s.planVehicles.Reset()
	for device, n := range ev.Devices {
		s.planVehicles.WithLabelValues(device).Set(float64(n))
	}
	return nil
}
