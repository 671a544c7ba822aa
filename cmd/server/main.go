// Command server is the entry point for the region-tagged post wall.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialwall/internal/bootstrap"
	"socialwall/internal/config"
	"socialwall/internal/middleware"
	"socialwall/internal/observability"
	"socialwall/internal/server"
)

// @title Social Wall API
// @version 1.0
// @description Region-tagged message wall used for multi-region resiliency drills

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(os.Stdout, cfg.IsProduction())

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    observability.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Region:         cfg.Region,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	rt := bootstrap.InitRuntime(context.Background(), cfg)

	srv, err := server.NewServer(cfg, rt)
	if err != nil {
		rt.Close()
		log.Fatalf("Failed to create server: %v", err)
	}

	printBanner(cfg, rt)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run returns after the pool and Redis are released.
	runErr := srv.Run(ctx, 10*time.Second)

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		middleware.Logger.Error("Tracing shutdown error", slog.String("error", err.Error()))
	}

	if runErr != nil {
		log.Fatal(runErr)
	}
}

func printBanner(cfg *config.Config, rt *bootstrap.Runtime) {
	database := "Mock Mode"
	if rt.StartupStatus == bootstrap.StatusConnected {
		database = fmt.Sprintf("%s (Connected)", cfg.DBDriver)
	} else if rt.StartupStatus == bootstrap.StatusDisconnected {
		database = "Mock Mode (connection failed)"
	}

	fmt.Printf(`
==============================================================
  Social Wall - Resiliency Workshop
--------------------------------------------------------------
  Server running on: http://localhost:%s
  Region:            %s
  Database:          %s
  Redis:             %t
  Health Check:      http://localhost:%s/health
==============================================================
`, cfg.Port, cfg.Region, database, rt.Redis != nil, cfg.Port)
}
