package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/config"
	coremon "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/monitoring"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/logger"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/monitoring"
)

var (
	cfgPath string
	envPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "alrakeen",
	Short: "Teltonika CAN device recommender and installation planner",
	Long: `alrakeen recommends a Teltonika tracker and CAN adapter for every vehicle
of a fleet list and schedules the installations region by region.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { coremon.Flush(2 * time.Second) },
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON); environment only when empty")
	rootCmd.PersistentFlags().StringVar(&envPath, "env-file", ".env", "dotenv file loaded before the configuration")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func setup(*cobra.Command, []string) error {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		logger.New("main").Warnf("sentry disabled: %v", err)
	} else {
		coremon.Init(mon)
	}
	return nil
}

// output returns the destination of a command: the file named by path or
// the command's stdout. The returned closer is never nil.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
