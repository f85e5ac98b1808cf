package metrics

import (
	"time"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// RecommendationEvent is emitted once per recommended vehicle.
type RecommendationEvent struct {
	RunID    string
	Category string
	Device   string
	Adapter  string
	Rule     string
	Fallback bool
	Time     time.Time
}

// Sink records recommendation events for observability purposes.
type Sink interface {
	RecordRecommendation(ev RecommendationEvent) error
}

// PlanEvent summarizes a finished deployment plan.
type PlanEvent struct {
	RunID     string
	GroupBy   model.GroupBy
	Vehicles  int
	Groups    int
	TotalDays int
	TotalCost float64
	Devices   map[string]int
	Time      time.Time
}

// PlanRecorder records plan rollups.
type PlanRecorder interface {
	RecordPlan(ev PlanEvent) error
}

// LookupEvent captures one compatibility table query.
type LookupEvent struct {
	Adapter  string
	Matches  int
	Failed   bool
	Duration time.Duration
	Time     time.Time
}

// LookupRecorder records compatibility lookups.
type LookupRecorder interface {
	RecordLookup(ev LookupEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRecommendation(RecommendationEvent) error { return nil }
func (NopSink) RecordPlan(PlanEvent) error                     { return nil }
func (NopSink) RecordLookup(LookupEvent) error                 { return nil }
