package model

import (
	"fmt"
	"strings"
)

// VehicleDescriptor represents one vehicle row submitted for recommendation.
type VehicleDescriptor struct {
	Category string `json:"category"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     *int   `json:"year,omitempty"` // nil when the row carries no usable year

	// Row attributes that do not influence the recommendation but are used
	// for grouping and reporting.
	Plate       string `json:"plate,omitempty"`
	Location    string `json:"location,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Description string `json:"description,omitempty"`
}

// NormalizedCategory returns the category trimmed and upper-cased.
func (v VehicleDescriptor) NormalizedCategory() string {
	return strings.ToUpper(strings.TrimSpace(v.Category))
}

// Label returns "MAKE MODEL" for display and image queries.
func (v VehicleDescriptor) Label() string {
	return strings.TrimSpace(strings.TrimSpace(v.Make) + " " + strings.TrimSpace(v.Model))
}

// IntPtr is a small helper for optional integer fields.
func IntPtr(v int) *int { return &v }

// CompatibilityRecord is one row of the adapter compatibility table.
type CompatibilityRecord struct {
	Adapter   string  `json:"adapter"`
	Brand     string  `json:"brand"`
	Model     string  `json:"model"`
	YearText  *string `json:"year_text,omitempty"`
	YearMin   *int    `json:"year_min,omitempty"`
	YearMax   *int    `json:"year_max,omitempty"`
	OpenEnded bool    `json:"open_ended"`
	CANBuses  *int    `json:"can_buses,omitempty"`
	Flags     string  `json:"flags,omitempty"`
}

// Validate checks the open-ended invariant: an open-ended record must have a
// lower bound and no upper bound.
func (r CompatibilityRecord) Validate() error {
	if r.Adapter == "" || r.Brand == "" || r.Model == "" {
		return fmt.Errorf("adapter, brand and model are required")
	}
	if r.OpenEnded {
		if r.YearMin == nil {
			return fmt.Errorf("open-ended record %s/%s has no year_min", r.Brand, r.Model)
		}
		if r.YearMax != nil {
			return fmt.Errorf("open-ended record %s/%s has a year_max", r.Brand, r.Model)
		}
	}
	return nil
}

// YearLabel returns the raw year text of the record or an empty string.
func (r CompatibilityRecord) YearLabel() string {
	if r.YearText == nil {
		return ""
	}
	return *r.YearText
}

// RecommendationResult is the device choice for one vehicle.
type RecommendationResult struct {
	RecommendedDevice string `json:"recommended_device"`
	// CANAccessory is empty when no adapter is required.
	CANAccessory      string `json:"can_accessory"`
	SupportedAdapters string `json:"supported_adapters"`
	AllOptions        string `json:"all_options"`
	// Rule is a human readable trace of the decision branch that fired.
	Rule string `json:"rule"`
	// Fallback reports that no verified compatibility record was found.
	Fallback      bool   `json:"fallback"`
	DevicePageURL string `json:"device_page_url,omitempty"`
}

// RecommendedVehicle pairs an input row with its recommendation.
type RecommendedVehicle struct {
	Vehicle         VehicleDescriptor    `json:"vehicle"`
	Result          RecommendationResult `json:"result"`
	VehicleImageURL string               `json:"vehicle_image_url,omitempty"`
}
