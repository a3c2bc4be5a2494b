package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	metricsinmem "botf2/internal/adapter/metrics/inmemory"
	"botf2/internal/adapter/metrics/prom"
	"botf2/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/cobra"
)

func main() {
	if err := newServerCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServerCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Serve the botf2 diplomacy API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("BOTF2_CONFIG"), "path to the YAML config file")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	shutdownTracing, err := initTracer(cfg.Tracing, os.Stdout)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	universe, err := buildUniverse(cfg.Scenario)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	b, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build storage: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("close_storage_failed", "error", err)
		}
	}()
	publisher, closePublisher, err := buildPublisher(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if err := closePublisher(); err != nil {
			logger.Warn("close_publisher_failed", "error", err)
		}
	}()

	kpi := metricsinmem.NewRecorder()
	h := buildHandler(cfg, b, universe, publisher, kpi, prom.Recorder{Next: kpi}, logger)

	metricsServer := newMetricsServer(cfg.Metrics.Addr)
	serveMetrics(metricsServer, logger)

	s := server.Default(server.WithHostPorts(cfg.Server.Addr))
	h.RegisterRoutes(s)

	logger.Info("botf2 server listening", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver, "publisher", publisher != nil)
	s.Spin()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("shutdown_tracing_failed", "error", err)
	}
	return nil
}
