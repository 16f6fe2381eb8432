package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgeduc/sge-backend/internal/config"
	"github.com/sgeduc/sge-backend/internal/database"
	"github.com/sgeduc/sge-backend/internal/handler"
	"github.com/sgeduc/sge-backend/internal/logger"
	"github.com/sgeduc/sge-backend/internal/middleware"
	"github.com/sgeduc/sge-backend/internal/repository"
	"github.com/sgeduc/sge-backend/internal/router"
	"github.com/sgeduc/sge-backend/internal/service"
	"github.com/sgeduc/sge-backend/internal/validator"
	"github.com/sgeduc/sge-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting SGE Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	subjectRepo := repository.NewSubjectRepository(pool)
	cohortRepo := repository.NewCohortRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	subjectService := service.NewSubjectService(subjectRepo, log)
	cohortService := service.NewCohortService(cohortRepo, log)
	scheduleService := service.NewScheduleService(scheduleRepo, cohortRepo, subjectRepo, rdb, log)
	gridService := service.NewGridService(scheduleRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Subject:  handler.NewSubjectHandler(subjectService),
		Cohort:   handler.NewCohortHandler(cohortService),
		Schedule: handler.NewScheduleHandler(scheduleService),
		Grid:     handler.NewGridHandler(gridService),
		WS:       handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
		System:   handler.NewSystemHandler(pool, rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	statsWorker := worker.NewStatsWorker(pool, rdb, log, cfg.StatsRefreshInterval)
	go statsWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	tokenValidator := middleware.NewTokenValidator(cfg.JWTSecret, cfg.JWTLeeway)
	r := router.SetupRouter(tokenValidator, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
