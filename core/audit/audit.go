// Package audit describes the trail of recommendation and planning runs.
package audit

import (
	"context"
	"time"
)

// Kind names the operation a run performed.
type Kind string

const (
	KindRecommend Kind = "recommend"
	KindPlan      Kind = "plan"
)

// RunRecord captures the outcome of one run.
type RunRecord struct {
	RunID     string         `json:"run_id"`
	Kind      Kind           `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	Vehicles  int            `json:"vehicles"`
	Fallbacks int            `json:"fallbacks"`
	Devices   map[string]int `json:"devices,omitempty"`
	GroupBy   string         `json:"group_by,omitempty"`
	Groups    int            `json:"groups,omitempty"`
	TotalDays int            `json:"total_days,omitempty"`
	TotalCost float64        `json:"total_cost,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Query filters records. Zero fields match everything.
type Query struct {
	Start time.Time
	End   time.Time
	Kind  Kind
	RunID string
}

// Match reports whether r satisfies q.
func (q Query) Match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	return true
}

// Store persists run records and supports querying.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q Query) ([]RunRecord, error)
	Close() error
}

// NopStore discards every record.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]RunRecord, error) { return nil, nil }
func (NopStore) Close() error                                      { return nil }
