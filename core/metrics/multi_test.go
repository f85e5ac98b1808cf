package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	count int
}

func (r *recordSink) RecordRecommendation(RecommendationEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordPlan(PlanEvent) error {
	r.count++
	return nil
}

// recommendOnly does not implement the optional recorders.
type recommendOnly struct{ count int }

func (r *recommendOnly) RecordRecommendation(RecommendationEvent) error {
	r.count++
	return nil
}

type failingSink struct{}

func (failingSink) RecordRecommendation(RecommendationEvent) error { return errors.New("boom") }

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recommendOnly{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordRecommendation(RecommendationEvent{Device: "FMC150"}); err != nil {
		t.Fatalf("record recommendation: %v", err)
	}
	if err := m.RecordPlan(PlanEvent{TotalDays: 3}); err != nil {
		t.Fatalf("record plan: %v", err)
	}
	if err := m.RecordLookup(LookupEvent{Adapter: "LV-CAN200"}); err != nil {
		t.Fatalf("record lookup: %v", err)
	}
	if s1.count != 2 || s2.count != 1 {
		t.Fatalf("events not forwarded: %d %d", s1.count, s2.count)
	}
}

func TestMultiSinkStopsOnError(t *testing.T) {
	after := &recordSink{}
	m := NewMultiSink(failingSink{}, after)
	if err := m.RecordRecommendation(RecommendationEvent{}); err == nil {
		t.Fatal("expected error")
	}
	if after.count != 0 {
		t.Fatal("sink after failure should not be called")
	}
}
