package planner

import (
	"gonum.org/v1/gonum/floats"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// Costs derives the per-day cost components and the total over totalDays.
func Costs(a model.CostAssumptions, totalDays int) model.CostBreakdown {
	a = Normalize(a)
	techs := float64(a.TechCount)

	c := model.CostBreakdown{TotalDays: max(totalDays, 0)}
	c.FuelLitersPerDay = a.KmPerDay * a.FuelLitersPer100km / 100
	c.FuelCostPerDay = c.FuelLitersPerDay * a.FuelPrice
	c.TechCostPerDay = techs * a.TechnicianDailyCost
	c.PerDiemCostPerDay = techs * a.PerDiemDaily
	c.HotelCostPerDay = a.HotelCostPerNight * a.HotelNightsPerDay
	c.TotalCostPerDay = floats.Sum([]float64{
		c.FuelCostPerDay,
		c.TechCostPerDay,
		c.PerDiemCostPerDay,
		c.HotelCostPerDay,
	})
	c.TotalCost = c.TotalCostPerDay * float64(c.TotalDays)
	return c
}
