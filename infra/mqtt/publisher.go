package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
	coremon "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/monitoring"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/planner"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/logger"
)

// DefaultTopicPrefix is used when the configuration leaves it empty.
const DefaultTopicPrefix = "alrakeen/plans"

// GroupMessage is one scheduled group of a published plan.
type GroupMessage struct {
	Group     string `json:"group"`
	Vehicles  int    `json:"vehicles"`
	Minutes   int    `json:"minutes"`
	Days      int    `json:"days"`
	Start     string `json:"start"`
	End       string `json:"end"`
	DeviceMix string `json:"device_mix"`
}

// PlanMessage is the payload published for a finished plan.
type PlanMessage struct {
	RunID          string         `json:"run_id"`
	GeneratedAt    int64          `json:"generated_at"`
	GroupBy        string         `json:"group_by"`
	TotalDays      int            `json:"total_days"`
	CapacityPerDay int            `json:"capacity_per_day_minutes"`
	TotalCost      float64        `json:"total_cost"`
	Groups         []GroupMessage `json:"groups"`
}

// NewPlanMessage flattens p into its wire form.
func NewPlanMessage(runID string, p model.Plan, now time.Time) PlanMessage {
	msg := PlanMessage{
		RunID:          runID,
		GeneratedAt:    now.UnixMilli(),
		GroupBy:        string(p.Assumptions.PlanBy),
		TotalDays:      p.TotalDays,
		CapacityPerDay: p.CapacityPerDay,
		TotalCost:      p.Costs.TotalCost,
		Groups:         make([]GroupMessage, len(p.Groups)),
	}
	for i, g := range p.Groups {
		msg.Groups[i] = GroupMessage{
			Group:     g.Key,
			Vehicles:  g.Count,
			Minutes:   g.Minutes,
			Days:      g.Days,
			Start:     g.Start.String(),
			End:       g.End.String(),
			DeviceMix: planner.DeviceMix(g),
		}
	}
	return msg
}

// PlanPublisher sends plans to "<prefix>/<run id>" and keeps the latest
// plan retained on "<prefix>/latest".
type PlanPublisher struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
	now        func() time.Time
}

// NewPlanPublisher connects to the broker.
func NewPlanPublisher(cfg Config) (*PlanPublisher, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected to %s", cfg.Broker) }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p := &PlanPublisher{
		cli:        c,
		prefix:     strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
		now:        time.Now,
	}
	if p.prefix == "" {
		p.prefix = DefaultTopicPrefix
	}
	if p.maxRetries <= 0 {
		p.maxRetries = 3
	}
	if p.backoff <= 0 {
		p.backoff = 100 * time.Millisecond
	}
	return p, nil
}

// PublishPlan publishes the plan of runID. Failed publishes are retried with
// exponential backoff until ctx is done.
func (p *PlanPublisher) PublishPlan(ctx context.Context, runID string, plan model.Plan) error {
	payload, err := json.Marshal(NewPlanMessage(runID, plan, p.now()))
	if err != nil {
		return err
	}
	if err := p.publish(ctx, p.prefix+"/"+runID, p.retain, payload); err != nil {
		coremon.Capture(err, "module", "mqtt", "run_id", runID)
		return err
	}
	if err := p.publish(ctx, p.prefix+"/latest", true, payload); err != nil {
		coremon.Capture(err, "module", "mqtt", "run_id", runID)
		return err
	}
	return nil
}

func (p *PlanPublisher) publish(ctx context.Context, topic string, retain bool, payload []byte) error {
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, retain, payload)
		token.Wait()
		if publishErr = token.Error(); publishErr == nil {
			p.log.Infof("published plan to %s", topic)
			return nil
		}
		p.log.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt == p.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(1<<attempt)):
		}
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Close gracefully closes the MQTT connection.
func (p *PlanPublisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}
