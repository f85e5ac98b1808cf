package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/metrics"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/logger"
)

// InfluxSink writes recommendation and plan events to InfluxDB using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRecommendation writes one point per recommended vehicle.
func (s *InfluxSink) RecordRecommendation(ev coremetrics.RecommendationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("can_recommendation").
		AddTag("run_id", ev.RunID).
		AddTag("device", ev.Device).
		AddTag("fallback", strconv.FormatBool(ev.Fallback))
	if ev.Adapter != "" {
		p = p.AddTag("adapter", ev.Adapter)
	}
	if ev.Category != "" {
		p = p.AddTag("category", ev.Category)
	}
	p = p.AddField("rule", ev.Rule).
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordLookup writes the duration of a compatibility lookup.
func (s *InfluxSink) RecordLookup(ev coremetrics.LookupEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("compat_lookup").
		AddTag("adapter", ev.Adapter).
		AddTag("failed", strconv.FormatBool(ev.Failed)).
		AddField("matches", ev.Matches).
		AddField("latency_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordPlan writes the plan rollup and one point per device.
func (s *InfluxSink) RecordPlan(ev coremetrics.PlanEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("deployment_plan").
		AddTag("run_id", ev.RunID).
		AddTag("group_by", string(ev.GroupBy)).
		AddField("vehicles", ev.Vehicles).
		AddField("groups", ev.Groups).
		AddField("total_days", ev.TotalDays).
		AddField("total_cost", round3(ev.TotalCost)).
		SetTime(ev.Time)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		return err
	}
	for _, device := range sortedKeys(ev.Devices) {
		dp := write.NewPointWithMeasurement("deployment_plan_device").
			AddTag("run_id", ev.RunID).
			AddTag("device", device).
			AddField("vehicles", ev.Devices[device]).
			SetTime(ev.Time)
		if err := s.writeAPI.WritePoint(ctx, dp); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
