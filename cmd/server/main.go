// Command server runs the mind map HTTP API.
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

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mindmap-backend/interfaces/http/rest"
	"mindmap-backend/internal/ai"
	"mindmap-backend/internal/config"
	"mindmap-backend/internal/layout"
	"mindmap-backend/internal/observability"
	"mindmap-backend/internal/session"
	"mindmap-backend/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	rawProvider, err := buildProvider(cfg.AI, logger)
	if err != nil {
		return fmt.Errorf("building AI provider: %w", err)
	}

	metrics := observability.NewCollector("mindmap")
	provider := ai.WithMetrics(rawProvider, metrics)

	manager := session.NewManager(func(sc session.Config) *session.Session {
		displayCfg := layout.DefaultDisplayConfig()
		displayCfg.MapType = sc.MapType
		displayCfg.ObsidianStyle = sc.ObsidianStyle
		displayCfg.ArrowsEnabled = sc.ArrowsEnabled

		st := store.New(logger)
		lc := layout.NewController(layout.NewHeadlessEngine(), displayCfg, logger)
		return session.New(st, lc, provider, metrics, sc, logger)
	})

	router := rest.NewRouter(manager, metrics, logger, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("model", cfg.AI.Model),
			zap.Bool("mock_provider", cfg.AI.UseMock))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func buildProvider(cfg config.AI, logger *zap.Logger) (ai.Provider, error) {
	if cfg.UseMock {
		logger.Warn("using mock AI provider")
		return ai.NewMockProvider(), nil
	}

	openAI, err := ai.NewOpenAIProvider(cfg.APIKey, cfg.Model, logger)
	if err != nil {
		return nil, err
	}

	var provider ai.Provider = ai.NewBreakerProvider(openAI, ai.DefaultBreakerConfig("openai"), logger)
	return ai.WithDefaults(provider, cfg.Timeout, cfg.MaxTokens, cfg.Temperature), nil
}

func newLogger(cfg config.Log) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, err
		}
	}

	var zc zap.Config
	if cfg.Pretty {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
