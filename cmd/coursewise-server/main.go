package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/coursewise/coursewise/advisor"
	"github.com/coursewise/coursewise/catalog"
	"github.com/coursewise/coursewise/config"
	"github.com/coursewise/coursewise/embed"
	"github.com/coursewise/coursewise/logging"
	"github.com/coursewise/coursewise/monitor"
	"github.com/coursewise/coursewise/recommend"
	"github.com/coursewise/coursewise/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info", "console")
		boot.Fatal().Err(err).Msg("configuration failed")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	store, err := catalog.NewStore(cfg.DSN, cfg.EmbeddingDimension)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", cfg.DSN).Msg("catalog store failed")
	}
	defer store.Close()

	embedder, err := embed.NewEmbedder(cfg.Embedder.Provider, embed.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKey:    cfg.Embedder.APIKey,
		Model:     cfg.Embedder.Model,
		ProjectID: cfg.Embedder.ProjectID,
		Dimension: cfg.EmbeddingDimension,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("embedder failed")
	}

	metrics := monitor.NewPrometheusCollector(prometheus.DefaultRegisterer)

	engine, err := recommend.New(store, embedder, recommend.Options{
		Weights:            cfg.Weights,
		Threshold:          cfg.Threshold,
		EmbedTimeout:       cfg.Embedder.Timeout,
		DefaultBudgetHours: cfg.DefaultBudgetHours,
		CacheTTL:           cfg.CacheTTL,
		Metrics:            metrics,
		Logger:             log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("engine failed")
	}

	var courseAdvisor advisor.Advisor
	if cfg.Advisor.Model != "" {
		courseAdvisor = advisor.NewOpenAIAdvisor(advisor.Config{
			BaseURL: cfg.Advisor.BaseURL,
			APIKey:  cfg.Advisor.APIKey,
			Model:   cfg.Advisor.Model,
		})
	}

	srv, err := server.New(server.Config{
		Engine:       engine,
		Store:        store,
		Embedder:     embedder,
		Advisor:      courseAdvisor,
		Logger:       log,
		DefaultLimit: cfg.DefaultLimit,
		MaxLimit:     cfg.MaxLimit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("provider", cfg.Embedder.Provider).Msg("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
