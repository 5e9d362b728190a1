// cmd/assessment-api/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"go.uber.org/zap"

	"sbdc-assessment/internal/common/cache"
	"sbdc-assessment/internal/common/config"
	"sbdc-assessment/internal/common/logger"
	"sbdc-assessment/internal/common/observability"
	"sbdc-assessment/internal/httpapi"
	"sbdc-assessment/pkg/questionnaire"

	br "sbdc-assessment/internal/services/reporting/build-report"
	rp "sbdc-assessment/internal/services/reporting/render-pdf"
	cs "sbdc-assessment/internal/services/scoring/calculate-scores"
	gr "sbdc-assessment/internal/services/scoring/generate-recommendations"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	fs := flag.NewFlagSet("assessment-api", flag.ExitOnError)
	var (
		configPath = fs.String("config", "", "config file (optional), yaml format")
		addr       = fs.String("addr", "", "listen address, overrides server.address")
		logLevel   = fs.String("log-level", "", "debug|info|warn|error, overrides logging.level")
		logFormat  = fs.String("log-format", "", "json|console, overrides logging.format")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("ASSESS")); err != nil {
		fmt.Fprintf(os.Stderr, "parse flags: %v\n", err)
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assessment API...", zap.String("config", cfg.String()))
	if cfg.EnvFile != "" {
		zapLog.Info("Loaded environment file", zap.String("path", cfg.EnvFile))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(ctx, observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.App.Version,
		MetricsEnabled: cfg.Observability.MetricsEnabled,
		OTLPEndpoint:   cfg.Observability.OTLPEndpoint,
		OTLPInsecure:   cfg.Observability.OTLPInsecure,
		SampleRatio:    cfg.Observability.SampleRatio,
	})
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			zapLog.Warn("observability shutdown failed", zap.Error(err))
		}
	}()

	// --- Questionnaire ---
	store, err := questionnaire.Load(cfg.Questionnaire.QuestionsPath, cfg.Questionnaire.ToneMatrixPath)
	if err != nil {
		zapLog.Fatal("questionnaire load failed", zap.Error(err))
	}
	zapLog.Info("Questionnaire loaded",
		zap.String("version", store.Version()),
		zap.Int("categories", len(store.Categories())),
		zap.Strings("catalysts", store.Catalysts()),
	)
	if missing := store.MissingFallbacks(); len(missing) > 0 {
		zapLog.Warn("tone matrix has no default entry for some categories; unknown catalysts or tiers will fail",
			zap.Strings("categories", missing))
	}

	// --- Optional render cache ---
	renderCfg := rp.NewConfig(cfg)
	var ready func(context.Context) error
	if cfg.Cache.Enabled {
		redisClient := cache.NewRedis(cfg.Cache.Redis)
		err = retryWithBackoff(func() error {
			return redisClient.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully", zap.String("address", cfg.Cache.Redis.Address))

		renderCfg.Cache = cache.NewRenderCacheFromConfig(cfg.Cache, redisClient)
		ready = redisClient.Ping
	}

	// --- Services ---
	scorer, err := cs.NewHandler(&cs.Config{Store: store}, log)
	if err != nil {
		zapLog.Fatal("scoring handler init failed", zap.Error(err))
	}
	recommender, err := gr.NewHandler(gr.NewConfig(cfg, store), log)
	if err != nil {
		zapLog.Fatal("recommendation handler init failed", zap.Error(err))
	}
	formatter, err := br.NewHandler(br.LoadConfig(store), log)
	if err != nil {
		zapLog.Fatal("report formatter init failed", zap.Error(err))
	}
	renderer, err := rp.NewHandler(renderCfg, log)
	if err != nil {
		zapLog.Fatal("pdf renderer init failed", zap.Error(err))
	}

	server, err := httpapi.New(cfg.Server, httpapi.Services{
		Store:       store,
		Scorer:      scorer,
		Recommender: recommender,
		Formatter:   formatter,
		Renderer:    renderer,
		Ready:       ready,
	}, obs, log)
	if err != nil {
		zapLog.Fatal("http server init failed", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Address)
	}()

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received, stopping server...")
	case err := <-errCh:
		if err != nil {
			zapLog.Error("http server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Assessment API stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
