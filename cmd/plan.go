package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/app"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/planner"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/pkg/export"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/pkg/importer"
)

var planOpts struct {
	format      string
	output      string
	sheet       string
	assumptions string
	planBy      string
	startDate   string
	techCount   int
	hoursPerDay int
	minutes     int
}

var planCmd = &cobra.Command{
	Use:   "plan <file>",
	Short: "Schedule the installation of every row of a JSON or CSV file",
	Long: `plan recommends a device for every row, groups the rows by location or
owner and schedules the groups on consecutive days, largest group first.

With --format csv the --sheet flag selects the table written: plan, cost or
recommendations. With --format json the whole run is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVarP(&planOpts.format, "format", "f", "csv", "output format: csv or json")
	f.StringVarP(&planOpts.output, "output", "o", "", "output file, stdout when empty")
	f.StringVar(&planOpts.sheet, "sheet", "plan", "csv sheet: plan, cost or recommendations")
	f.StringVar(&planOpts.assumptions, "assumptions", "", "YAML or JSON file with crew and cost assumptions")
	f.StringVar(&planOpts.planBy, "plan-by", "", "group by location or owner")
	f.StringVar(&planOpts.startDate, "start-date", "", "first installation day (YYYY-MM-DD), today when empty")
	f.IntVar(&planOpts.techCount, "tech-count", 0, "technicians in the crew")
	f.IntVar(&planOpts.hoursPerDay, "hours-per-day", 0, "working hours per day")
	f.IntVar(&planOpts.minutes, "minutes-per-vehicle", 0, "installation minutes per vehicle")
	rootCmd.AddCommand(planCmd)
}

// planRequest builds the request from the assumptions file and the flags
// set on the command line. Flags take precedence over the file and both
// take precedence over the configured defaults.
func planRequest(cmd *cobra.Command, rows []model.VehicleDescriptor) (app.PlanRequest, error) {
	var o planner.Overrides
	if planOpts.assumptions != "" {
		loaded, err := planner.LoadOverrides(planOpts.assumptions)
		if err != nil {
			return app.PlanRequest{}, err
		}
		o = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("tech-count") {
		o.TechCount = &planOpts.techCount
	}
	if flags.Changed("hours-per-day") {
		o.HoursPerDay = &planOpts.hoursPerDay
	}
	if flags.Changed("minutes-per-vehicle") {
		o.MinutesPerVehicle = &planOpts.minutes
	}
	if planOpts.planBy != "" {
		by := model.ParseGroupBy(planOpts.planBy)
		o.PlanBy = &by
	}
	if planOpts.startDate != "" {
		d, err := model.ParseDate(planOpts.startDate)
		if err != nil {
			return app.PlanRequest{}, err
		}
		o.StartDate = &d
	}
	return app.PlanRequest{Rows: rows, Assumptions: o}, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	rows, err := importer.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	req, err := planRequest(cmd, rows)
	if err != nil {
		return err
	}
	svc, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	run, err := svc.Plan(cmd.Context(), req)
	if err != nil {
		return err
	}
	w, closeOut, err := output(cmd, planOpts.output)
	if err != nil {
		return err
	}
	switch {
	case planOpts.format == "json":
		err = export.WriteJSON(w, run)
	case planOpts.format != "csv":
		err = fmt.Errorf("unknown format %q", planOpts.format)
	case planOpts.sheet == "plan":
		err = export.WritePlanCSV(w, run.Groups, run.CapacityPerDay)
	case planOpts.sheet == "cost":
		err = export.WriteCostCSV(w, export.CostRows(run.Assumptions, *run.Costs))
	case planOpts.sheet == "recommendations":
		err = export.WriteRecommendationsCSV(w, run.Results)
	default:
		err = fmt.Errorf("unknown sheet %q", planOpts.sheet)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}
