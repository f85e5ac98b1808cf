package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

// Schedule groups rows by the attribute selected with by and assigns each
// group a contiguous block of days, largest group first. Groups of equal
// size keep the order in which they were first seen. It returns the groups
// and the total number of days.
func Schedule(rows []model.RecommendedVehicle, by model.GroupBy, a model.CostAssumptions) ([]model.DeploymentGroup, int) {
	a = Normalize(a)
	capacity := CapacityPerDay(a)

	groups := groupRows(rows, by)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})

	cursor := 0
	for i := range groups {
		g := &groups[i]
		g.Minutes = g.Count * a.MinutesPerVehicle
		g.Days = max(1, ceilDiv(g.Minutes, capacity))
		g.Start = a.StartDate.AddDays(cursor)
		g.End = a.StartDate.AddDays(cursor + g.Days - 1)
		cursor += g.Days
	}
	return groups, cursor
}

func groupRows(rows []model.RecommendedVehicle, by model.GroupBy) []model.DeploymentGroup {
	index := make(map[string]int)
	var groups []model.DeploymentGroup
	for _, r := range rows {
		key := GroupKey(r.Vehicle, by)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.DeploymentGroup{Key: key, Devices: make(map[string]int)})
		}
		groups[i].Count++
		groups[i].Devices[r.Result.RecommendedDevice]++
	}
	return groups
}

// GroupKey returns the trimmed grouping value of v or DefaultGroup.
func GroupKey(v model.VehicleDescriptor, by model.GroupBy) string {
	if k := strings.TrimSpace(by.Value(v)); k != "" {
		return k
	}
	return model.DefaultGroup
}

// ResolveGroupBy falls back to the other grouping attribute when no row
// carries a value for the requested one.
func ResolveGroupBy(rows []model.RecommendedVehicle, requested model.GroupBy) model.GroupBy {
	other := model.GroupByOwner
	if requested == model.GroupByOwner {
		other = model.GroupByLocation
	}
	hasRequested, hasOther := false, false
	for _, r := range rows {
		if strings.TrimSpace(requested.Value(r.Vehicle)) != "" {
			hasRequested = true
			break
		}
		if strings.TrimSpace(other.Value(r.Vehicle)) != "" {
			hasOther = true
		}
	}
	if !hasRequested && hasOther {
		return other
	}
	return requested
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Build schedules rows and rolls up the costs of the resulting plan.
func Build(rows []model.RecommendedVehicle, by model.GroupBy, a model.CostAssumptions) model.Plan {
	a = Normalize(a)
	groups, total := Schedule(rows, by, a)
	return model.Plan{
		Assumptions:    a,
		Groups:         groups,
		TotalDays:      total,
		CapacityPerDay: CapacityPerDay(a),
		Costs:          Costs(a, total),
	}
}

// DeviceMix renders the device histogram of g as "FMC150:3 | FMC650:1",
// sorted by device name.
func DeviceMix(g model.DeploymentGroup) string {
	names := make([]string, 0, len(g.Devices))
	for name := range g.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:%d", name, g.Devices[name])
	}
	return strings.Join(parts, " | ")
}

// DeviceSummary counts recommended devices over all rows.
func DeviceSummary(rows []model.RecommendedVehicle) map[string]int {
	out := make(map[string]int)
	for _, r := range rows {
		out[r.Result.RecommendedDevice]++
	}
	return out
}
