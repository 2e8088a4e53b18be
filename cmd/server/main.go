package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdugdh24/therapymatch-backend/internal/config"
	"github.com/gdugdh24/therapymatch-backend/internal/infrastructure/container"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize dependency injection container
	app, err := container.NewContainer(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	log := app.Logger
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("Error closing application", zap.Error(err))
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		if err := app.Server.Start(); err != nil {
			log.Error("Server error", zap.Error(err))
			quit <- syscall.SIGTERM
		}
	}()

	log.Info("Server started",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Env),
		zap.String("empty_preference_policy", cfg.Matching.EmptyPreferencePolicy),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// Wait for interrupt signal
	sig := <-quit
	log.Info("Shutdown signal received", zap.String("signal", sig.String()))

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
		return
	}

	log.Info("Server exited properly")
}
