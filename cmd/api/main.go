package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"hv-analyzer/internal/bootstrap"
	"hv-analyzer/internal/shared/config"
	"hv-analyzer/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()
	defer telemetry.Sync()

	if err := bootstrap.Serve(ctx, app); err != nil {
		telemetry.Error("server.error", map[string]any{"err": err})
	}
}
