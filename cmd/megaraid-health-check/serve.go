package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"megaraid-health-check/internal/collector"
	"megaraid-health-check/internal/config"
	"megaraid-health-check/internal/health"
	"megaraid-health-check/internal/metrics"
	"megaraid-health-check/internal/system"
)

func newServeCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Args:  cobra.ExactArgs(0),
		Short: "Run as a Prometheus exporter",
		Long: "Run the check every collect interval and publish the result as Prometheus metrics.\n" +
			"Each collection queries the controller again; nothing is reused between runs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	cfg.BindServeFlags(cmd.Flags())
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := setupLogging(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Info("Starting MegaRAID health exporter...")

	// Perform one-time system detection
	sysInfo := system.New(cfg.StorcliPath, cfg.ESXCLIPath).Detect()

	p, err := newProvider(cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	svc := health.New(p, cfg.Controller).WithLogger(logger)
	c := collector.New(m, svc, cfg.Controller, health.Options{TargetVD: cfg.VD}, cfg.CollectInterval, version)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start metrics collection in background
	go c.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newServeMux(cfg, sysInfo, c, m),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Starting HTTP server on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// newServeMux configures the HTTP routes
func newServeMux(cfg *config.Config, sysInfo *system.SystemInfo, c *collector.Collector, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(cfg.MetricsPath, promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{}))
	ver := fmt.Sprintf("v%s (%s)", version, commit)

	// Root endpoint with basic info
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
		<html>
		<head><title>MegaRAID Health Exporter</title></head>
		<body>
		<h1>MegaRAID Health Exporter</h1>
		<p><a href="%s">Metrics</a></p>
		<p><a href="/health">Health Check</a></p>
		<p><a href="/health/json">Health JSON</a></p>
		<p>Version: %s</p>
		<p>Collect Interval: %s</p>
		<h3>System Information</h3>
		<p>Platform: %s</p>
		<p>Controller: %s</p>
		<p>Transport: %s</p>
		<p>Storcli: %s</p>
		</body>
		</html>
		`, cfg.MetricsPath, ver, cfg.CollectInterval, sysInfo.Platform, cfg.Controller, cfg.ResolveTransport(), sysInfo.StorcliName())
	})

	// Basic health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"megaraid-health-check"}`)
	})

	// Detailed JSON health endpoint
	mux.HandleFunc("/health/json", func(w http.ResponseWriter, r *http.Request) {
		healthData := c.Latest()
		if healthData == nil {
			http.Error(w, "No check completed yet", http.StatusServiceUnavailable)
			return
		}

		jsonData, err := json.MarshalIndent(healthData, "", "  ")
		if err != nil {
			log.WithError(err).Error("Failed to encode health report")
			http.Error(w, "Failed to generate JSON", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(jsonData)
	})

	return mux
}
