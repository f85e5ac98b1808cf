package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// Overrides holds the assumption fields a caller set explicitly. A nil
// field keeps the base value, so an explicit zero replaces a non-zero
// default.
type Overrides struct {
	PlanBy              *model.GroupBy `json:"planBy,omitempty" yaml:"planBy"`
	TechCount           *int           `json:"techCount,omitempty" yaml:"techCount"`
	HoursPerDay         *int           `json:"hoursPerDay,omitempty" yaml:"hoursPerDay"`
	MinutesPerVehicle   *int           `json:"installsPerVehicleMinutes,omitempty" yaml:"installsPerVehicleMinutes"`
	StartDate           *model.Date    `json:"startDate,omitempty" yaml:"startDate"`
	KmPerDay            *float64       `json:"kmPerDay,omitempty" yaml:"kmPerDay"`
	FuelPrice           *float64       `json:"fuelPrice,omitempty" yaml:"fuelPrice"`
	FuelLitersPer100km  *float64       `json:"fuelLitersPer100km,omitempty" yaml:"fuelLitersPer100km"`
	TechnicianDailyCost *float64       `json:"technicianDailyCost,omitempty" yaml:"technicianDailyCost"`
	PerDiemDaily        *float64       `json:"perDiemDaily,omitempty" yaml:"perDiemDaily"`
	HotelCostPerNight   *float64       `json:"hotelCostPerNight,omitempty" yaml:"hotelCostPerNight"`
	HotelNightsPerDay   *float64       `json:"hotelNightsPerDay,omitempty" yaml:"hotelNightsPerDay"`
}

// Apply returns base with every set field of o applied on top. An empty
// plan-by value or start date leaves the base untouched.
func (o Overrides) Apply(base model.CostAssumptions) model.CostAssumptions {
	out := base
	if o.PlanBy != nil && *o.PlanBy != "" {
		out.PlanBy = model.ParseGroupBy(string(*o.PlanBy))
	}
	if o.StartDate != nil && !o.StartDate.IsZero() {
		out.StartDate = *o.StartDate
	}
	set(&out.TechCount, o.TechCount)
	set(&out.HoursPerDay, o.HoursPerDay)
	set(&out.MinutesPerVehicle, o.MinutesPerVehicle)
	set(&out.KmPerDay, o.KmPerDay)
	set(&out.FuelPrice, o.FuelPrice)
	set(&out.FuelLitersPer100km, o.FuelLitersPer100km)
	set(&out.TechnicianDailyCost, o.TechnicianDailyCost)
	set(&out.PerDiemDaily, o.PerDiemDaily)
	set(&out.HotelCostPerNight, o.HotelCostPerNight)
	set(&out.HotelNightsPerDay, o.HotelNightsPerDay)
	return out
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// LoadAssumptions loads CostAssumptions from a JSON or YAML file.
func LoadAssumptions(path string) (model.CostAssumptions, error) {
	return load(path, DecodeAssumptions)
}

// DecodeAssumptions reads CostAssumptions from r in the given format.
func DecodeAssumptions(r io.Reader, format string) (model.CostAssumptions, error) {
	return decode[model.CostAssumptions](r, format)
}

// LoadOverrides loads the fields present in a JSON or YAML file.
func LoadOverrides(path string) (Overrides, error) {
	return load(path, DecodeOverrides)
}

// DecodeOverrides reads Overrides from r in the given format.
func DecodeOverrides(r io.Reader, format string) (Overrides, error) {
	return decode[Overrides](r, format)
}

func load[T any](path string, dec func(io.Reader, string) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return dec(f, ext)
}

func decode[T any](r io.Reader, format string) (T, error) {
	var v T
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&v); err != nil && err != io.EOF {
			return v, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&v); err != nil {
			return v, err
		}
	default:
		return v, fmt.Errorf("unsupported format: %s", format)
	}
	return v, nil
}
