package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"reviewflow/internal/analysis"
	"reviewflow/internal/gateway/config"
	"reviewflow/internal/gateway/handler"
	"reviewflow/internal/gateway/server"
	"reviewflow/internal/objectstore"
	"reviewflow/internal/session"
	"reviewflow/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := newLogger(cfg.Env)

	analyzer, err := buildAnalyzer(cfg.Analysis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build analyzer")
	}

	store, err := buildObjectStore(cfg.Artifact, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build object store")
	}

	sessions, err := session.NewManager(analyzer, store, upload.UUIDKeyGenerator{}, cfg.Analysis.Timeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build session manager")
	}

	mux := server.NewMux(handler.New(sessions, log))
	srv := server.New(cfg.Port, mux, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}
}

func newLogger(env string) zerolog.Logger {
	if strings.EqualFold(env, "local") {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func buildAnalyzer(cfg config.AnalysisConfig, log zerolog.Logger) (analysis.Analyzer, error) {
	var analyzer analysis.Analyzer
	if cfg.Model != "" {
		gemini, err := analysis.NewGeminiAnalyzer(context.Background(), cfg.Model)
		if err != nil {
			return nil, err
		}
		log.Info().Str("backend", gemini.Name()).Msg("analysis backend")
		analyzer = gemini
	} else {
		log.Info().Dur("delay", cfg.StubDelay).Msg("analysis backend: fixed-delay stub")
		analyzer = analysis.NewStub(cfg.StubDelay)
	}
	if cfg.CacheSize > 0 {
		cached, err := analysis.NewCached(analyzer, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		analyzer = cached
	}
	return analyzer, nil
}

func buildObjectStore(cfg config.ArtifactConfig, log zerolog.Logger) (objectstore.Store, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		log.Warn().Msg("artifact storage disabled, uploads kept in memory only")
		return objectstore.NewMemoryStore(), nil
	}
	return objectstore.NewS3Store(objectstore.S3Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
}
