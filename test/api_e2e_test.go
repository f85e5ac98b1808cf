package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/api"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/app"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/config"
	coreaudit "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/audit"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/audit"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/compatdb"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/metrics"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/test/util"
)

func TestPlanOverHTTPWithSQLiteStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := compatdb.NewSQLiteStore(filepath.Join(dir, "compat.db"))
	require.NoError(t, err)
	require.NoError(t, store.Replace(ctx, compat.AdapterAllCAN300, []model.CompatibilityRecord{
		compat.ParseYearText("2016-2022").Apply(model.CompatibilityRecord{Adapter: compat.AdapterAllCAN300, Brand: "HYUNDAI", Model: "STARIA"}),
	}))

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	runs, err := audit.NewRotatingJSONLStore(filepath.Join(dir, "runs.jsonl"), 1, 1, 1)
	require.NoError(t, err)

	svc, err := app.NewWithDeps(app.Deps{Store: store, Sink: sink, Audit: runs, Concurrency: 4})
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	cfg := config.HTTPConfig{Token: "secret"}
	cfg.SetDefaults()
	srv := httptest.NewServer(api.NewHandler(svc, cfg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	defer srv.Close()

	body := `{
		"rows":[
			{"description":"هيونداي ستاريا staria 2020","year":2020,"owner":"Fleet A","category":"van"},
			{"category":"bus","make":"MAN","model":"Lion","owner":"Fleet B"},
			{"category":"car","make":"Nissan","model":"Sunny"}
		],
		"assumptions":{"planBy":"owner","startDate":"2025-02-01","kmPerDay":100,"fuelLitersPer100km":10,"fuelPrice":2}
	}`
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/plan", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run app.PlanRun
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	require.Len(t, run.Results, 3)
	assert.Equal(t, "HYUNDAI", run.Results[0].Vehicle.Make)
	assert.Equal(t, compat.AdapterAllCAN300, run.Results[0].Result.CANAccessory)
	assert.Equal(t, "FMC650", run.Results[1].Result.RecommendedDevice)
	assert.True(t, run.Results[2].Result.Fallback)

	assert.Equal(t, model.GroupByOwner, run.GroupBy)
	require.Len(t, run.Groups, 3)
	assert.Equal(t, "Fleet A", run.Groups[0].Key)
	assert.Equal(t, model.DefaultGroup, run.Groups[2].Key)
	require.NotNil(t, run.Costs)
	assert.InDelta(t, 60, run.Costs.TotalCost, 1e-9)

	metricsCtx, cancel := context.WithTimeout(ctx, util.MetricTimeout)
	defer cancel()
	require.NoError(t, util.WaitForMetric(metricsCtx, srv.URL+"/metrics", `can_recommendations_total{adapter="ALL-CAN300",device="FMC150",fallback="false"} 1`))
	require.NoError(t, util.WaitForMetric(metricsCtx, srv.URL+"/metrics", "deployment_plan_total_days 3"))

	recs, err := runs.Query(ctx, coreaudit.Query{RunID: run.RunID})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 3, recs[0].Groups)
}
