package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"aiengine/internal/config"
	"aiengine/internal/httpapi"
	"aiengine/internal/insights"
	"aiengine/internal/logging"
	"aiengine/internal/manager"
	"aiengine/internal/processor"
)

func newServeCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP server (default)",
		Example: "  aiengine serve --port 8080 --models-dir ./models",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f)
		},
	}
}

func runServe(cmd *cobra.Command, f *rootFlags) error {
	cfg, err := resolveConfig(f)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, log)
}

func newLogger(cfg config.Config) zerolog.Logger {
	level := cfg.LogLevel
	if cfg.Development() && strings.EqualFold(level, config.Default().LogLevel) {
		level = "debug"
	}
	return logging.New(logging.Options{
		Level:       level,
		Development: cfg.Development(),
		Service:     "aiengine",
		Version:     cfg.Version,
	})
}

// serve runs the HTTP server until ctx is done, then drains in-flight
// requests for at most cfg.ShutdownSeconds.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	proc := processor.New()
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Logger:    log,
		Processor: proc,
		OpenAI: manager.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		},
		Watch: cfg.WatchModels,
	})
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Warn().Err(err).Msg("closing model manager")
		}
	}()
	if err := mgr.InitModels(ctx, cfg.ModelCacheDir); err != nil {
		return err
	}

	// Handlers see a context that is canceled once shutdown starts.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	mux := httpapi.NewMux(httpapi.Services{
		Models:    mgr,
		Processor: proc,
		Insights:  insights.New(log, mgr),
	}, httpapi.Options{
		Version:         cfg.Version,
		Logger:          log,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimit:       cfg.RateLimit,
		RateBurst:       cfg.RateBurst,
		Swagger:         cfg.Development(),
		BaseContext:     baseCtx,
		RequestLogLevel: requestLogLevel(cfg.LogLevel),
	})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr()).
			Str("models_dir", cfg.ModelCacheDir).
			Str("env", cfg.Env).
			Strs("models", mgr.LoadedModels()).
			Msg("aiengine listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	cancelBase()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}

// requestLogLevel maps the process log level onto the per-request levels
// understood by httpapi.
func requestLogLevel(level string) string {
	switch logging.ParseLevel(level) {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return "debug"
	case zerolog.WarnLevel, zerolog.ErrorLevel:
		return "error"
	case zerolog.Disabled:
		return "off"
	default:
		return "info"
	}
}
