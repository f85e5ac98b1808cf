package recommend

import (
	"fmt"
	"strings"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// Device identifiers.
const (
	DeviceFMC650 = "FMC650"
	DeviceFMC150 = "FMC150"
)

// FallbackMarker flags recommendations without a verified record.
const FallbackMarker = "(fallback)"

const optionSeparator = " | "

// heavyCategories is matched as a set, never by substring.
var heavyCategories = map[string]struct{}{
	"HEAVY": {},
	"TRUCK": {},
	"BUS":   {},
}

// AdapterOption pairs a CAN adapter with the device it is installed with.
type AdapterOption struct {
	Adapter string
	Device  string
}

func (o AdapterOption) label() string { return o.Device + " + " + o.Adapter }

// DefaultAdapters lists the adapters in priority order.
// TODO: ALL-CAN300 wins whenever both adapters fit; confirm with product
// whether this is a business priority before adding per-model overrides.
func DefaultAdapters() []AdapterOption {
	return []AdapterOption{
		{Adapter: compat.AdapterAllCAN300, Device: DeviceFMC150},
		{Adapter: compat.AdapterLVCAN200, Device: DeviceFMC150},
	}
}

// DefaultFallback is recommended when no adapter has a fitting record.
func DefaultFallback() AdapterOption {
	return AdapterOption{Adapter: compat.AdapterLVCAN200, Device: DeviceFMC150}
}

// Rule is one entry of the decision table. Apply reports whether the rule
// fired; a non-nil error aborts the evaluation.
type Rule struct {
	Name  string
	Apply func(d *Decision) (model.RecommendationResult, bool, error)
}

// DefaultRules builds the standard table for the given adapter priority:
// heavy class override, one rule per adapter, then the fallback.
func DefaultRules(adapters []AdapterOption) []Rule {
	rules := []Rule{HeavyClassRule()}
	for _, a := range adapters {
		rules = append(rules, AdapterRule(a.Adapter))
	}
	return append(rules, FallbackRule())
}

// HeavyClassRule routes HEAVY, TRUCK and BUS through the vehicle's native
// FMS/J1939 bus. It never queries the compatibility table.
func HeavyClassRule() Rule {
	return Rule{
		Name: "heavy-class",
		Apply: func(d *Decision) (model.RecommendationResult, bool, error) {
			if _, ok := heavyCategories[d.Vehicle.NormalizedCategory()]; !ok {
				return model.RecommendationResult{}, false, nil
			}
			return model.RecommendationResult{
				RecommendedDevice: DeviceFMC650,
				CANAccessory:      "",
				SupportedAdapters: "FMS/J1939 (heavy)",
				AllOptions:        DeviceFMC650 + " (FMS/J1939)",
				Rule:              "Heavy/Truck/Bus => FMC650 (FMS/CAN)",
			}, true, nil
		},
	}
}

// AdapterRule fires when the given adapter has a year-fitting record.
func AdapterRule(adapter string) Rule {
	return Rule{
		Name: "adapter-" + strings.ToLower(adapter),
		Apply: func(d *Decision) (model.RecommendationResult, bool, error) {
			m, ok, err := d.Match(adapter)
			if err != nil || !ok {
				return model.RecommendationResult{}, false, err
			}
			opts, err := d.AllOptions()
			if err != nil {
				return model.RecommendationResult{}, false, err
			}
			return model.RecommendationResult{
				RecommendedDevice: m.Option.Device,
				CANAccessory:      m.Option.Adapter,
				SupportedAdapters: m.Option.Adapter,
				AllOptions:        opts,
				Rule: fmt.Sprintf("%s match (%s) => %s",
					m.Option.Adapter, m.Record.YearLabel(), m.Option.label()),
			}, true, nil
		},
	}
}

// FallbackRule always fires and recommends the decision's fallback option
// marked as unverified.
func FallbackRule() Rule {
	return Rule{
		Name: "fallback",
		Apply: func(d *Decision) (model.RecommendationResult, bool, error) {
			def := d.fallback
			opts, err := d.AllOptions()
			if err != nil {
				return model.RecommendationResult{}, false, err
			}
			return model.RecommendationResult{
				RecommendedDevice: def.Device,
				CANAccessory:      def.Adapter,
				SupportedAdapters: def.Adapter + " " + FallbackMarker,
				AllOptions:        opts,
				Rule:              "DEFAULT light vehicle => " + def.label() + " " + FallbackMarker,
				Fallback:          true,
			}, true, nil
		},
	}
}
