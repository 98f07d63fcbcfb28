package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dharmasatrya/flightsearch/internal/config"
	"github.com/dharmasatrya/flightsearch/internal/mockapi"
	"github.com/dharmasatrya/flightsearch/pkg/logger"
	"github.com/dharmasatrya/flightsearch/pkg/metrics"
)

func main() {
	cfg := config.Load()

	appLogger, err := logger.NewLogger(logger.Options{Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	fixtures, err := mockapi.LoadFixtures()
	if err != nil {
		appLogger.Fatal("failed to load fixtures", "error", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	e := mockapi.NewServer(fixtures, mockapi.Options{
		APIKey:   cfg.MockAPIKey,
		Logger:   appLogger,
		Metrics:  metrics.NewMetrics("mock", registry),
		Gatherer: registry,
	})

	addr := ":" + cfg.MockPort
	go func() {
		appLogger.Info("mock flight API listening", "addr", addr, "api_key_required", cfg.MockAPIKey != "")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down mock API")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		appLogger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	appLogger.Info("server stopped")
}
