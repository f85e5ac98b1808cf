package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used across plans.
const DateLayout = "2006-01-02"

// Date is a calendar day in UTC. It (un)marshals as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	t = t.UTC()
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value leaves
// the date unset.
func (d *Date) UnmarshalText(b []byte) error {
	if strings.TrimSpace(string(b)) == "" {
		*d = Date{}
		return nil
	}
	p, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// MarshalJSON overrides the RFC 3339 encoding of the embedded time.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", an empty string or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

// GroupBy selects the row attribute installations are grouped by.
type GroupBy string

const (
	GroupByLocation GroupBy = "location"
	GroupByOwner    GroupBy = "owner"
)

// DefaultGroup is the bucket for rows without a grouping value.
const DefaultGroup = "DEFAULT"

// ParseGroupBy maps free text to a GroupBy, defaulting to location.
func ParseGroupBy(s string) GroupBy {
	if strings.EqualFold(strings.TrimSpace(s), string(GroupByOwner)) {
		return GroupByOwner
	}
	return GroupByLocation
}

// Value returns the grouping attribute of v selected by g.
func (g GroupBy) Value(v VehicleDescriptor) string {
	if g == GroupByOwner {
		return v.Owner
	}
	return v.Location
}

// CostAssumptions holds the crew and cost parameters of a planning run.
type CostAssumptions struct {
	PlanBy              GroupBy `json:"planBy" yaml:"planBy"`
	TechCount           int     `json:"techCount" yaml:"techCount"`
	HoursPerDay         int     `json:"hoursPerDay" yaml:"hoursPerDay"`
	MinutesPerVehicle   int     `json:"installsPerVehicleMinutes" yaml:"installsPerVehicleMinutes"`
	StartDate           Date    `json:"startDate" yaml:"startDate"`
	KmPerDay            float64 `json:"kmPerDay" yaml:"kmPerDay"`
	FuelPrice           float64 `json:"fuelPrice" yaml:"fuelPrice"`
	FuelLitersPer100km  float64 `json:"fuelLitersPer100km" yaml:"fuelLitersPer100km"`
	TechnicianDailyCost float64 `json:"technicianDailyCost" yaml:"technicianDailyCost"`
	PerDiemDaily        float64 `json:"perDiemDaily" yaml:"perDiemDaily"`
	HotelCostPerNight   float64 `json:"hotelCostPerNight" yaml:"hotelCostPerNight"`
	HotelNightsPerDay   float64 `json:"hotelNightsPerDay" yaml:"hotelNightsPerDay"`
}

// DeploymentGroup is one installation batch of the plan.
type DeploymentGroup struct {
	Key     string         `json:"group"`
	Count   int            `json:"vehicles"`
	Devices map[string]int `json:"devices"`
	Minutes int            `json:"minutes"`
	Days    int            `json:"days"`
	Start   Date           `json:"start"`
	End     Date           `json:"end"`
}

// CostBreakdown is the derived cost model of a plan.
type CostBreakdown struct {
	FuelLitersPerDay  float64 `json:"fuel_liters_per_day"`
	FuelCostPerDay    float64 `json:"fuel_cost_per_day"`
	TechCostPerDay    float64 `json:"tech_cost_per_day"`
	PerDiemCostPerDay float64 `json:"per_diem_cost_per_day"`
	HotelCostPerDay   float64 `json:"hotel_cost_per_day"`
	TotalCostPerDay   float64 `json:"total_cost_per_day"`
	TotalDays         int     `json:"total_days"`
	TotalCost         float64 `json:"total_cost"`
}

// Plan is the full result of a planning run.
type Plan struct {
	Assumptions    CostAssumptions   `json:"assumptions"`
	Groups         []DeploymentGroup `json:"groups"`
	TotalDays      int               `json:"total_days"`
	CapacityPerDay int               `json:"capacity_per_day_minutes"`
	Costs          CostBreakdown     `json:"costs"`
}
