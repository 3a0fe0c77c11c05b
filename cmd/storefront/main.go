package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/aquago-storefront/internal/app"
	"github.com/fjod/aquago-storefront/internal/config"
	"github.com/fjod/aquago-storefront/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatalf("invalid configuration: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalf("failed to build storefront: %v", err)
	}
	if err := a.Start(ctx); err != nil {
		log.Fatalf("failed to start storefront: %v", err)
	}

	go func() {
		if err := a.Serve(); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down storefront...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Info("storefront stopped")
}
