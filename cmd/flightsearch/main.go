package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dharmasatrya/flightsearch/internal/config"
	"github.com/dharmasatrya/flightsearch/internal/ratelimit"
	"github.com/dharmasatrya/flightsearch/internal/search"
	"github.com/dharmasatrya/flightsearch/internal/skyapi"
	"github.com/dharmasatrya/flightsearch/internal/store"
	"github.com/dharmasatrya/flightsearch/internal/suggest"
	"github.com/dharmasatrya/flightsearch/internal/tui"
	"github.com/dharmasatrya/flightsearch/pkg/logger"
	"github.com/dharmasatrya/flightsearch/pkg/metrics"
)

func main() {
	cfg := config.Load()

	// The terminal belongs to the UI, so logs go to a file.
	appLogger, err := logger.NewLogger(logger.Options{Level: cfg.LogLevel, OutputPath: cfg.LogFile})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if cfg.RapidAPIKey == "" {
		appLogger.Warn("RAPIDAPI_KEY is not set, upstream requests will be rejected unless SKY_API_BASE_URL points at the mock API")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.NewMetrics("flightsearch", registry)

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, registry, appLogger)
	}

	limiter := ratelimit.NewOperationLimiter(ratelimit.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	})

	client := skyapi.NewClient(skyapi.Config{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.RapidAPIKey,
		Host:        cfg.RapidAPIHost,
		Currency:    cfg.Currency,
		Market:      cfg.Market,
		CountryCode: cfg.CountryCode,
		Timeout:     cfg.RequestTimeout,
		Limiter:     limiter,
		Metrics:     m,
		Logger:      appLogger.With("component", "skyapi"),
	})

	st := store.New(time.Now())
	orchestrator := search.NewOrchestrator(client, st, search.Config{
		Timeout: cfg.RequestTimeout + 5*time.Second,
		Logger:  appLogger.With("component", "search"),
		Metrics: m,
	})

	suggestLogger := appLogger.With("component", "suggest")

	appLogger.Info("starting flight search",
		"base_url", cfg.BaseURL,
		"currency", cfg.Currency,
		"rate_limit_rps", cfg.RateLimitRPS)

	err = tui.Run(tui.Deps{
		Store:        st,
		Search:       orchestrator,
		Origins:      suggest.New(client, suggestLogger.With("field", "origin"), m),
		Destinations: suggest.New(client, suggestLogger.With("field", "destination"), m),
		Details:      client,
		Logger:       appLogger.With("component", "tui"),
		Timeout:      cfg.RequestTimeout,
	})
	if err != nil {
		appLogger.Error("terminal UI exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "flightsearch: %v\n", err)
		os.Exit(1)
	}
}

func serveMetrics(addr string, gatherer prometheus.Gatherer, l logger.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	l.Info("serving metrics", "addr", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		l.Error("metrics server stopped", "error", err)
	}
}
