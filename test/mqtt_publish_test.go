//go:build !no_containers

package test

import (
	"context"
	"encoding/json"
	"os/exec"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/planner"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/mqtt"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/test/util"
)

func TestPlanPublisherWithMosquitto(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()
	broker, cleanup, err := util.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("Mosquitto not ready: %v", err)
	}
	defer cleanup()

	pub, err := mqtt.NewPlanPublisher(mqtt.Config{Broker: broker, ClientID: "planner", QoS: 1})
	require.NoError(t, err)
	defer func() { _ = pub.Close() }()

	start, err := model.ParseDate("2025-01-01")
	require.NoError(t, err)
	rows := []model.RecommendedVehicle{
		{Vehicle: model.VehicleDescriptor{Location: "Riyadh"}, Result: model.RecommendationResult{RecommendedDevice: "FMC150"}},
		{Vehicle: model.VehicleDescriptor{Location: "Jeddah"}, Result: model.RecommendationResult{RecommendedDevice: "FMC650"}},
	}
	plan := planner.Build(rows, model.GroupByLocation, model.CostAssumptions{StartDate: start})
	require.NoError(t, pub.PublishPlan(ctx, "run-42", plan))

	// The latest plan is retained, so a late subscriber still receives it.
	got := make(chan mqtt.PlanMessage, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("late-subscriber"))
	if tok := sub.Connect(); tok.Wait() && tok.Error() != nil {
		t.Fatalf("connect: %v", tok.Error())
	}
	defer sub.Disconnect(100)
	if tok := sub.Subscribe(mqtt.DefaultTopicPrefix+"/latest", 1, func(_ paho.Client, m paho.Message) {
		var msg mqtt.PlanMessage
		if err := json.Unmarshal(m.Payload(), &msg); err == nil {
			select {
			case got <- msg:
			default:
			}
		}
	}); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscribe: %v", tok.Error())
	}

	select {
	case msg := <-got:
		require.Equal(t, "run-42", msg.RunID)
		require.Len(t, msg.Groups, 2)
		require.Equal(t, 2, msg.TotalDays)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for retained plan")
	}
}
