package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caixapos/internal/config"
	"caixapos/internal/infra"
	"caixapos/internal/repository"
	"caixapos/internal/router"
	"caixapos/internal/service"
	"caixapos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.MigrateTesouraria)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	metrics := infra.NewMetrics()

	// Start goroutine worker pool that re-warms fechamento snapshots after
	// each movement write. Wired here (composition root) so the pool has its
	// own service instance with full infrastructure access.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fechamentoRepo := repository.NewFechamentoRepository(db)
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	fechamentoSvc := service.NewFechamentoService(fechamentoRepo, rdb, cacheTTL, metrics)
	worker.StartWorkerPool(ctx, rdb, fechamentoSvc, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb, metrics)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("caixapos backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
