package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/app/plugins"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/pkg/export"
)

var compatCmd = &cobra.Command{
	Use:   "compat",
	Short: "Inspect the CAN adapter compatibility table",
}

var compatLookupCmd = &cobra.Command{
	Use:   "lookup <adapter> <brand> <model>",
	Short: "List the records stored for an adapter, brand and model",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := plugins.NewStore(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		recs, err := store.FindCompatible(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return export.WriteJSON(cmd.OutOrStdout(), recs)
	},
}

func init() {
	compatCmd.AddCommand(compatLookupCmd)
	rootCmd.AddCommand(compatCmd)
}
