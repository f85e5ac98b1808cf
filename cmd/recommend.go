package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/app"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/pkg/export"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/pkg/importer"
)

var recommendOpts struct {
	format string
	output string
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <file>",
	Short: "Recommend a device for every row of a JSON or CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendOpts.format, "format", "f", "csv", "output format: csv or json")
	recommendCmd.Flags().StringVarP(&recommendOpts.output, "output", "o", "", "output file, stdout when empty")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	rows, err := importer.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	svc, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	run, err := svc.Recommend(cmd.Context(), rows)
	if err != nil {
		return err
	}
	w, closeOut, err := output(cmd, recommendOpts.output)
	if err != nil {
		return err
	}
	switch recommendOpts.format {
	case "json":
		err = export.WriteJSON(w, run)
	case "csv":
		err = export.WriteRecommendationsCSV(w, run.Results)
	default:
		err = fmt.Errorf("unknown format %q", recommendOpts.format)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}
