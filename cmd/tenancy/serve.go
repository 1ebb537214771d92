package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	transport "github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/interface/http"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/observability"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
)

func newServeCmd() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tenancy HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, seedFile)
		},
	}
	cmd.Flags().StringVarP(&seedFile, "seed", "s", "", "seed file applied before serving")
	return cmd
}

func runServe(ctx context.Context, seedFile string) error {
	// ─────────────────────────────────────────────────────────────────────────
	// Configuration and logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("starting tenancy service",
		logger.String("version", cfg.App.Version),
		logger.String("store", cfg.Database.Driver),
		logger.Bool("redis_lock", cfg.Redis.Enabled),
		logger.String("timezone", cfg.App.Timezone),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// Tracing
	// ─────────────────────────────────────────────────────────────────────────
	shutdownTracing, err := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Observability.TracingEnabled,
		ServiceName: cfg.App.Name,
		Environment: string(cfg.App.Environment),
		Version:     cfg.App.Version,
		Pretty:      cfg.IsDevelopment(),
	})
	if err != nil {
		log.Warn("otel init failed, tracing disabled", logger.Err(err))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Infrastructure
	// ─────────────────────────────────────────────────────────────────────────
	a, err := bootstrap(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if seedFile != "" {
		data, err := readSeed(seedFile)
		if err != nil {
			return err
		}
		if err := a.applySeed(ctx, data); err != nil {
			return err
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// HTTP
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := transport.DefaultConfig()
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	if cfg.IsDevelopment() {
		httpCfg.Mode = gin.DebugMode
	}

	server := transport.NewServer(httpCfg, transport.Dependencies{
		Engine: a.engine(),
		Health: a.health,
		Logger: log,
	})
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// Graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", logger.Err(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("otel shutdown failed", logger.Err(err))
	}

	log.Info("shutdown completed")
	return nil
}
