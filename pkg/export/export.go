// Package export writes recommendation results and deployment plans as CSV
// or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/planner"
)

// RecommendationHeader lists the columns of WriteRecommendationsCSV.
var RecommendationHeader = []string{
	"Category", "Make", "Model", "Year", "Plate", "Location", "Owner", "Description",
	"Recommended Teltonika Device", "CAN Accessory", "Supported CAN Adapters",
	"All Compatible Options", "Rule Used", "Device Page URL", "Vehicle Image URL",
}

// PlanHeader lists the columns of WritePlanCSV.
var PlanHeader = []string{
	"Region/Group", "Vehicles", "Est. Minutes", "Team Capacity/Day (min)",
	"Est. Days", "Start", "End", "Device Mix",
}

// CostRow is one line of the cost sheet.
type CostRow struct {
	Item  string  `json:"Item"`
	Value float64 `json:"Value"`
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteRecommendationsCSV writes one line per vehicle with the input
// columns followed by the recommendation.
func WriteRecommendationsCSV(w io.Writer, rows []model.RecommendedVehicle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecommendationHeader); err != nil {
		return err
	}
	for _, r := range rows {
		v, res := r.Vehicle, r.Result
		year := ""
		if v.Year != nil {
			year = strconv.Itoa(*v.Year)
		}
		rec := []string{
			v.Category, v.Make, v.Model, year, v.Plate, v.Location, v.Owner, v.Description,
			res.RecommendedDevice, res.CANAccessory, res.SupportedAdapters,
			res.AllOptions, res.Rule, res.DevicePageURL, r.VehicleImageURL,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePlanCSV writes one line per deployment group.
func WritePlanCSV(w io.Writer, groups []model.DeploymentGroup, capacityPerDay int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PlanHeader); err != nil {
		return err
	}
	for _, g := range groups {
		rec := []string{
			g.Key,
			strconv.Itoa(g.Count),
			strconv.Itoa(g.Minutes),
			strconv.Itoa(capacityPerDay),
			strconv.Itoa(g.Days),
			g.Start.String(),
			g.End.String(),
			planner.DeviceMix(g),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CostRows flattens the assumptions and the derived costs into the cost
// sheet.
func CostRows(a model.CostAssumptions, c model.CostBreakdown) []CostRow {
	a = planner.Normalize(a)
	return []CostRow{
		{"Total Days", float64(c.TotalDays)},
		{"Technicians", float64(a.TechCount)},
		{"Minutes/Vehicle", float64(a.MinutesPerVehicle)},
		{"KM/Day (assumption)", a.KmPerDay},
		{"Fuel L/100km", a.FuelLitersPer100km},
		{"Fuel Price", a.FuelPrice},
		{"Fuel Cost/Day", c.FuelCostPerDay},
		{"Tech Cost/Day", c.TechCostPerDay},
		{"Per Diem/Day", c.PerDiemCostPerDay},
		{"Hotel Cost/Day", c.HotelCostPerDay},
		{"TOTAL Cost/Day", c.TotalCostPerDay},
		{"TOTAL Cost", c.TotalCost},
	}
}

// WriteCostCSV writes the cost sheet with an Item, Value header.
func WriteCostCSV(w io.Writer, rows []CostRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Item", "Value"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Item, strconv.FormatFloat(r.Value, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
