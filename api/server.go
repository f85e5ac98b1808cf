// Package api assembles the JSON HTTP API of the recommender.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/api/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/api/runs"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/api/vehicles"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/app"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/config"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/recommend"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/logger"
)

// NewHandler routes every endpoint. metrics is mounted on /metrics when
// non-nil. Routes under /api/ require the configured bearer token.
func NewHandler(svc *app.Service, cfg config.HTTPConfig, metrics http.Handler) http.Handler {
	log := logger.New("api")
	var adapters []string
	for _, a := range recommend.DefaultAdapters() {
		adapters = append(adapters, a.Adapter)
	}

	protected := http.NewServeMux()
	protected.Handle("/api/recommend", vehicles.NewRecommendHandler(svc, cfg.MaxBodyBytes))
	protected.Handle("/api/plan", vehicles.NewPlanHandler(svc, cfg.MaxBodyBytes))
	protected.Handle("/api/compat", compat.NewHandler(svc.Finder(), adapters))
	protected.Handle("/api/runs", runs.NewHandler(svc.Runs()))

	mux := http.NewServeMux()
	mux.Handle("/api/", RequireBearer(cfg.Token)(protected))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	return Chain(mux, Recover(log), OTel("alrakeen-api"), AccessLog(log))
}

// NewServer returns an http.Server for the API.
func NewServer(svc *app.Service, cfg config.HTTPConfig, metrics http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewHandler(svc, cfg, metrics),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

// Serve runs srv until ctx is canceled and then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server) error {
	log := logger.New("api")
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("api shutdown: %v", err)
		}
	}()
	log.Infof("serving API on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
