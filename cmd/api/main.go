package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chatguard-lab/internal/api"
	"chatguard-lab/internal/api/handlers"
	"chatguard-lab/internal/config"
	"chatguard-lab/internal/domain/services"
	"chatguard-lab/internal/domain/services/ai"
	"chatguard-lab/internal/infrastructure/cache"
	"chatguard-lab/pkg/logger"
)

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}

	log.Info().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Msg("starting API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional: without it the service runs uncached and unthrottled
	var redis *cache.RedisCache
	if cfg.Redis.Enabled {
		redis, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
			redis = nil
		} else {
			defer redis.Close()
		}
	}

	content := services.NewContentAnalyzer(log)

	var narrative services.NarrativeGenerator
	if cfg.Narrative.Enabled && cfg.Narrative.APIKey != "" {
		narrative = ai.NewNarrativeClient(cfg.Narrative, log)
		log.Info().Str("provider", cfg.Narrative.Provider).Msg("AI narrative enabled")
	}
	synthesizer := services.NewReportSynthesizer(narrative, cfg.Analysis.PreviewItems, log)
	chatAnalyzer := services.NewChatAnalyzer(content, synthesizer, cfg.Analysis.Parallelism, log)

	h := handlers.New(handlers.Dependencies{
		Config:       cfg,
		Logger:       log,
		Content:      content,
		ChatAnalyzer: chatAnalyzer,
		Redis:        redis,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      api.NewRouter(cfg, h, redis, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("HTTP server failed")
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("server stopped")
}
