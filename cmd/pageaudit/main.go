// Package main wires together the page audit service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/landalytics/pageaudit/internal/api"
	"github.com/landalytics/pageaudit/internal/clock/system"
	"github.com/landalytics/pageaudit/internal/config"
	"github.com/landalytics/pageaudit/internal/fetch"
	"github.com/landalytics/pageaudit/internal/logging"
	"github.com/landalytics/pageaudit/internal/narrative"
	"github.com/landalytics/pageaudit/internal/pagespeed"
	"github.com/landalytics/pageaudit/internal/ratelimit"
	"github.com/landalytics/pageaudit/internal/telemetry"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry.Init()

	clock := system.New()
	limiter := ratelimit.New(ratelimit.NewStore(), clock, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())

	var primary fetch.Strategy
	var headless *fetch.Headless
	switch cfg.Fetch.Renderer {
	case "chromedp":
		headless = fetch.NewHeadless(fetch.HeadlessConfig{
			MaxParallel: cfg.Fetch.Headless.MaxParallel,
			UserAgent:   cfg.Fetch.UserAgent,
			NavTimeout:  time.Duration(cfg.Fetch.Headless.NavTimeoutSeconds) * time.Second,
		}, logger.Named("headless"))
		primary = headless
	default:
		primary = fetch.NewReader(fetch.ReaderConfig{
			Endpoint:     cfg.Fetch.Reader.Endpoint,
			UserAgent:    cfg.Fetch.UserAgent,
			Timeout:      time.Duration(cfg.Fetch.Reader.TimeoutSeconds) * time.Second,
			MaxRedirects: cfg.Fetch.Reader.MaxRedirects,
			MaxBodyBytes: cfg.Fetch.Reader.MaxBodyBytes,
			MinInterval:  time.Duration(cfg.Fetch.Reader.MinIntervalMs) * time.Millisecond,
		}, logger.Named("reader"))
	}
	fallback := fetch.NewDirect(fetch.DirectConfig{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      time.Duration(cfg.Fetch.Direct.TimeoutSeconds) * time.Second,
		MaxRedirects: cfg.Fetch.Direct.MaxRedirects,
		MaxBodyBytes: cfg.Fetch.Direct.MaxBodyBytes,
	}, logger.Named("direct"))
	pipeline := fetch.NewPipeline(primary, fallback, cfg.Fetch.ThinContentWords, logger.Named("fetch"))

	speed := pagespeed.New(
		cfg.PageSpeed.Endpoint,
		cfg.PageSpeed.APIKey,
		time.Duration(cfg.PageSpeed.TimeoutSeconds)*time.Second,
		logger.Named("pagespeed"),
	)
	if speed == nil {
		logger.Warn("pagespeed api key not configured, mobile scores will be heuristic")
	}

	completions := narrative.NewClient(
		cfg.Narrative.Endpoint,
		cfg.Narrative.APIKey,
		cfg.Narrative.Model,
		time.Duration(cfg.Narrative.TimeoutSeconds)*time.Second,
	)
	generator := narrative.NewGenerator(completions, logger.Named("narrative"))

	apiServer := api.NewServer(limiter, pipeline, speed, generator, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if headless != nil {
		headless.Close()
	}
	logger.Info("shutdown complete")
}
