package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cartsense-poc-v1/server/internal/core"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph/classifiers"
	"github.com/cartsense-poc-v1/server/internal/predictor/graph/padding"
	"github.com/cartsense-poc-v1/server/internal/predictor/model"
	"github.com/cartsense-poc-v1/server/internal/web"
	logx "github.com/cartsense-poc-v1/server/pkg/logger"
)

// AppConfig defines all configurable parameters of the service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`

	Server   model.ServerConfig
	Pipeline model.PipelineConfig
}

func main() {
	logx.Init()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("Could not load .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logx.Fatal().Err(err).Msg("Server stopped with error")
	}
	logx.Info().Msg("Server stopped")
}

func run(ctx context.Context, cfg AppConfig) error {
	readTimeout, err := time.ParseDuration(cfg.Server.ReadTimeout)
	if err != nil {
		return fmt.Errorf("invalid HTTP_READ_TIMEOUT %q: %w", cfg.Server.ReadTimeout, err)
	}
	writeTimeout, err := time.ParseDuration(cfg.Server.WriteTimeout)
	if err != nil {
		return fmt.Errorf("invalid HTTP_WRITE_TIMEOUT %q: %w", cfg.Server.WriteTimeout, err)
	}
	shutdownTimeout, err := time.ParseDuration(cfg.Server.ShutdownTimeout)
	if err != nil {
		return fmt.Errorf("invalid HTTP_SHUTDOWN_TIMEOUT %q: %w", cfg.Server.ShutdownTimeout, err)
	}

	strategy, err := padding.ParseStrategy(cfg.Pipeline.PaddingStrategy)
	if err != nil {
		return err
	}
	if strategy == padding.StrategyRandom {
		logx.Warn().
			Uint64("seed", cfg.Pipeline.PaddingSeed).
			Msg("Random feature padding enabled: uncollected inputs are noise and predictions are not reproducible")
	}

	bundle, err := classifiers.Load(cfg.Pipeline.ModelDir)
	if err != nil {
		return fmt.Errorf("load model artifacts: %w", err)
	}

	runner, err := graph.BuildInferenceGraph(ctx, graph.Config{
		Bundle: bundle,
		Padder: padding.New(strategy, cfg.Pipeline.PaddingSeed),
	})
	if err != nil {
		return fmt.Errorf("build inference graph: %w", err)
	}

	handler, err := web.NewHandler(runner, cfg.Environment)
	if err != nil {
		return fmt.Errorf("build handler: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.Routes(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().
			Str("addr", cfg.Server.Addr).
			Str("environment", cfg.Environment.String()).
			Str("padding", string(strategy)).
			Msg("Cart abandonment predictor listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logx.Info().Msg("Shutting down")
	return srv.Shutdown(shutdownCtx)
}
