// Package planner turns a set of recommended vehicles into an installation
// plan. Vehicles are grouped by location or owner, groups are scheduled
// largest first on consecutive calendar days and a per-day cost model is
// rolled up over the total number of crew-days. Plans can be exported to
// JSON or CSV with pkg/export.
//
// One crew works all groups back to back. Travel between groups is not
// modelled.
package planner
