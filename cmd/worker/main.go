package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/config"
	"github.com/fhuszti/videos-ms-go/internal/db"
	workerHandler "github.com/fhuszti/videos-ms-go/internal/handler/worker"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/videos-ms-go/internal/task"
	"github.com/fhuszti/videos-ms-go/internal/transcription"
	videoSvc "github.com/fhuszti/videos-ms-go/internal/usecase/video"
	msuuid "github.com/fhuszti/videos-ms-go/internal/uuid"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	database := initDb(cfg)

	repo := mariadb.NewVideoRepository(database.DB)
	jobs := videoSvc.NewTranscriptionJobManager(initTranscriber(ctx, cfg), metrics.NewNoop(), videoSvc.TranscriptionConfig{
		LanguageCode:  cfg.TranscriptionLanguage,
		JobNamePrefix: cfg.TranscriptionJobPrefix,
		OutputBucket:  cfg.TranscriptsBucket,
	}, msuuid.NewUUID)
	statusSvc := videoSvc.NewTranscriptionStatusGetter(repo, jobs, videoSvc.NewStatusReconciler(repo))

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeReconcileTranscription, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseReconcileTranscriptionPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ReconcileTranscriptionHandler(ctx, p, statusSvc)
	})

	runWorker(ctx, mux, cfg, database)
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initTranscriber(ctx context.Context, cfg *config.Settings) port.Transcriber {
	t, err := transcription.NewAWSTranscriber(ctx, cfg.AWSRegion, cfg.TranscribeEndpoint)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize transcription client: %v", err)
		os.Exit(1)
	}
	return t
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		Concurrency:     10,
		RetryDelayFunc:  task.ReconcileRetryDelay(cfg.ReconcileDelay),
		ShutdownTimeout: 30 * time.Second,
	})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stop accepting new tasks, wait up to ShutdownTimeout for in-flight ones
	srv.Shutdown()

	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
