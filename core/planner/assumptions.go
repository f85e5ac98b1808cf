package planner

import (
	"math"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// Defaults applied to unset crew parameters.
const (
	DefaultTechCount         = 1
	DefaultHoursPerDay       = 8
	DefaultMinutesPerVehicle = 35

	MinTechCount         = 1
	MinHoursPerDay       = 1
	MinMinutesPerVehicle = 10

	MaxTechCount         = 10000
	MaxHoursPerDay       = 24
	MaxMinutesPerVehicle = 24 * 60
)

// Normalize fills unset crew parameters with defaults and clamps every
// input to its floor: negative or NaN amounts become zero, the crew size and
// working hours are at least one and an install takes at least ten minutes.
// Crew parameters are also capped so that capacity and minute totals stay
// within int range.
func Normalize(a model.CostAssumptions) model.CostAssumptions {
	if a.PlanBy == "" {
		a.PlanBy = model.GroupByLocation
	}
	if a.TechCount == 0 {
		a.TechCount = DefaultTechCount
	}
	if a.HoursPerDay == 0 {
		a.HoursPerDay = DefaultHoursPerDay
	}
	if a.MinutesPerVehicle == 0 {
		a.MinutesPerVehicle = DefaultMinutesPerVehicle
	}
	a.TechCount = min(max(a.TechCount, MinTechCount), MaxTechCount)
	a.HoursPerDay = min(max(a.HoursPerDay, MinHoursPerDay), MaxHoursPerDay)
	a.MinutesPerVehicle = min(max(a.MinutesPerVehicle, MinMinutesPerVehicle), MaxMinutesPerVehicle)

	a.KmPerDay = nonNegative(a.KmPerDay)
	a.FuelPrice = nonNegative(a.FuelPrice)
	a.FuelLitersPer100km = nonNegative(a.FuelLitersPer100km)
	a.TechnicianDailyCost = nonNegative(a.TechnicianDailyCost)
	a.PerDiemDaily = nonNegative(a.PerDiemDaily)
	a.HotelCostPerNight = nonNegative(a.HotelCostPerNight)
	a.HotelNightsPerDay = nonNegative(a.HotelNightsPerDay)
	return a
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// CapacityPerDay returns the installer-minutes the crew has in one day.
func CapacityPerDay(a model.CostAssumptions) int {
	a = Normalize(a)
	return a.TechCount * a.HoursPerDay * 60
}
