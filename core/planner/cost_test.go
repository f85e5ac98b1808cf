package planner

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

const eps = 1e-9

func TestCostsExample(t *testing.T) {
	a := model.CostAssumptions{
		TechCount:           2,
		KmPerDay:            140,
		FuelLitersPer100km:  12,
		FuelPrice:           2.33,
		TechnicianDailyCost: 350,
		PerDiemDaily:        100,
		HotelCostPerNight:   280,
		HotelNightsPerDay:   0,
	}
	c := Costs(a, 5)
	assert.InDelta(t, 16.8, c.FuelLitersPerDay, eps)
	assert.InDelta(t, 39.144, c.FuelCostPerDay, eps)
	assert.InDelta(t, 700, c.TechCostPerDay, eps)
	assert.InDelta(t, 200, c.PerDiemCostPerDay, eps)
	assert.InDelta(t, 0, c.HotelCostPerDay, eps)
	assert.InDelta(t, 939.144, c.TotalCostPerDay, eps)
	assert.Equal(t, 5, c.TotalDays)
	assert.InDelta(t, 4695.72, c.TotalCost, 1e-6)
}

func TestCostsClampNegativeInputs(t *testing.T) {
	a := model.CostAssumptions{
		TechCount:           0,
		KmPerDay:            -140,
		FuelLitersPer100km:  12,
		FuelPrice:           2,
		TechnicianDailyCost: -1,
		PerDiemDaily:        math.NaN(),
		HotelCostPerNight:   100,
		HotelNightsPerDay:   1,
	}
	c := Costs(a, 3)
	assert.Zero(t, c.FuelLitersPerDay)
	assert.Zero(t, c.FuelCostPerDay)
	assert.Zero(t, c.TechCostPerDay)
	assert.Zero(t, c.PerDiemCostPerDay)
	assert.InDelta(t, 100, c.HotelCostPerDay, eps)
	assert.InDelta(t, 300, c.TotalCost, eps)
}

func TestNormalize(t *testing.T) {
	n := Normalize(model.CostAssumptions{})
	assert.Equal(t, model.GroupByLocation, n.PlanBy)
	assert.Equal(t, DefaultTechCount, n.TechCount)
	assert.Equal(t, DefaultHoursPerDay, n.HoursPerDay)
	assert.Equal(t, DefaultMinutesPerVehicle, n.MinutesPerVehicle)

	n = Normalize(model.CostAssumptions{TechCount: -2, HoursPerDay: -8, MinutesPerVehicle: 5})
	assert.Equal(t, 1, n.TechCount)
	assert.Equal(t, 1, n.HoursPerDay)
	assert.Equal(t, 10, n.MinutesPerVehicle)
	assert.Equal(t, 60, CapacityPerDay(n))
}

func TestBuildCarriesCosts(t *testing.T) {
	a := model.CostAssumptions{TechCount: 2, HoursPerDay: 8, MinutesPerVehicle: 35, TechnicianDailyCost: 100}
	p := Build(rows("A", "FMC150", 50), model.GroupByLocation, a)
	assert.Equal(t, 2, p.TotalDays)
	assert.Equal(t, 960, p.CapacityPerDay)
	assert.InDelta(t, 400, p.Costs.TotalCost, eps)
	assert.Equal(t, 2, p.Assumptions.TechCount)
}

func TestDecodeAssumptionsYAML(t *testing.T) {
	data := "planBy: owner\ntechCount: 3\nhoursPerDay: 9\ninstallsPerVehicleMinutes: 40\nstartDate: \"2025-02-01\"\nkmPerDay: 120.5\n"
	a, err := DecodeAssumptions(bytes.NewBufferString(data), "yaml")
	require.NoError(t, err)
	assert.Equal(t, model.GroupByOwner, a.PlanBy)
	assert.Equal(t, 3, a.TechCount)
	assert.Equal(t, 9, a.HoursPerDay)
	assert.Equal(t, 40, a.MinutesPerVehicle)
	assert.Equal(t, "2025-02-01", a.StartDate.String())
	assert.InDelta(t, 120.5, a.KmPerDay, eps)
}

func TestDecodeAssumptionsJSON(t *testing.T) {
	a, err := DecodeAssumptions(bytes.NewBufferString(`{"techCount":2,"startDate":"2025-01-01","fuelPrice":2.33}`), "json")
	require.NoError(t, err)
	assert.Equal(t, 2, a.TechCount)
	assert.Equal(t, "2025-01-01", a.StartDate.String())
	assert.InDelta(t, 2.33, a.FuelPrice, eps)

	_, err = DecodeAssumptions(bytes.NewBufferString(`{"startDate":"01.01.2025"}`), "json")
	assert.Error(t, err)
	_, err = DecodeAssumptions(bytes.NewBufferString(`{}`), "toml")
	assert.Error(t, err)
}

func TestLoadAssumptionsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crew.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"techCount":4}`), 0o644))
	a, err := LoadAssumptions(path)
	require.NoError(t, err)
	assert.Equal(t, 4, a.TechCount)

	_, err = LoadAssumptions(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "crew.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err = LoadAssumptions(txt)
	assert.Error(t, err)
}

func TestDecodeOverridesKeepsExplicitZero(t *testing.T) {
	base := model.CostAssumptions{TechCount: 3, HotelCostPerNight: 280, HotelNightsPerDay: 1, KmPerDay: 140}

	o, err := DecodeOverrides(bytes.NewBufferString("hotelNightsPerDay: 0\nplanBy: OWNER\n"), "yaml")
	require.NoError(t, err)
	got := o.Apply(base)
	assert.Zero(t, got.HotelNightsPerDay)
	assert.Equal(t, model.GroupByOwner, got.PlanBy)
	assert.InDelta(t, 280, got.HotelCostPerNight, eps)
	assert.InDelta(t, 140, got.KmPerDay, eps)
	assert.Zero(t, Costs(got, 1).HotelCostPerDay)

	o, err = DecodeOverrides(bytes.NewBufferString(`{"kmPerDay":0,"startDate":"2025-01-01"}`), "json")
	require.NoError(t, err)
	got = o.Apply(base)
	assert.Zero(t, got.KmPerDay)
	assert.Equal(t, 3, got.TechCount)
	assert.Equal(t, "2025-01-01", got.StartDate.String())

	assert.Equal(t, base, Overrides{}.Apply(base))
}
