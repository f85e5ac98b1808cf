package cmd

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/api"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/app"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/logger"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.New("main")

	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
	}()

	var metricsHandler http.Handler = promhttp.Handler()
	if addr := cfg.HTTP.MetricsAddr; addr != "" {
		metricsHandler = nil
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				log.Errorf("prom server: %v", err)
			}
		}()
	}
	return api.Serve(ctx, api.NewServer(svc, cfg.HTTP, metricsHandler))
}
