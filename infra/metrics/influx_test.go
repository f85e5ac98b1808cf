package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/metrics"
)

type lineRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (l *lineRecorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		l.mu.Lock()
		l.bodies = append(l.bodies, strings.TrimSpace(string(data)))
		l.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func line(p *write.Point) string {
	return strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
}

func TestInfluxSink_RecordRecommendation(t *testing.T) {
	rec := &lineRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.RecommendationEvent{
		RunID:    "r1",
		Category: "SEDAN",
		Device:   "FMC150",
		Adapter:  "LV-CAN200",
		Rule:     "LV-CAN200 match",
		Time:     now,
	}
	if err := sink.RecordRecommendation(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("can_recommendation").
		AddTag("run_id", "r1").
		AddTag("device", "FMC150").
		AddTag("fallback", "false").
		AddTag("adapter", "LV-CAN200").
		AddTag("category", "SEDAN").
		AddField("rule", "LV-CAN200 match").
		AddField("count", 1).
		SetTime(now)
	if len(rec.bodies) != 1 || rec.bodies[0] != line(p) {
		t.Errorf("unexpected bodies: %#v", rec.bodies)
	}
}

func TestInfluxSink_RecordPlan(t *testing.T) {
	rec := &lineRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.PlanEvent{
		RunID:     "r2",
		GroupBy:   "location",
		Vehicles:  90,
		Groups:    3,
		TotalDays: 5,
		TotalCost: 4695.72,
		Devices:   map[string]int{"FMC650": 30, "FMC150": 60},
		Time:      now,
	}
	if err := sink.RecordPlan(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	want := []string{
		line(write.NewPointWithMeasurement("deployment_plan").
			AddTag("run_id", "r2").
			AddTag("group_by", "location").
			AddField("vehicles", 90).
			AddField("groups", 3).
			AddField("total_days", 5).
			AddField("total_cost", 4695.72).
			SetTime(now)),
		line(write.NewPointWithMeasurement("deployment_plan_device").
			AddTag("run_id", "r2").
			AddTag("device", "FMC150").
			AddField("vehicles", 60).
			SetTime(now)),
		line(write.NewPointWithMeasurement("deployment_plan_device").
			AddTag("run_id", "r2").
			AddTag("device", "FMC650").
			AddField("vehicles", 30).
			SetTime(now)),
	}
	if len(rec.bodies) != len(want) {
		t.Fatalf("bodies: %#v", rec.bodies)
	}
	for i := range want {
		if rec.bodies[i] != want[i] {
			t.Errorf("body %d: got %s want %s", i, rec.bodies[i], want[i])
		}
	}
}

func TestInfluxSink_RecordLookup(t *testing.T) {
	rec := &lineRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	if err := sink.RecordLookup(coremetrics.LookupEvent{Adapter: "ALL-CAN300", Matches: 1, Duration: 1500 * time.Microsecond, Time: now}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("compat_lookup").
		AddTag("adapter", "ALL-CAN300").
		AddTag("failed", "false").
		AddField("matches", 1).
		AddField("latency_ms", 1.5).
		SetTime(now)
	if len(rec.bodies) != 1 || rec.bodies[0] != line(p) {
		t.Errorf("bodies: %#v", rec.bodies)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
