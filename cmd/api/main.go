package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fhuszti/videos-ms-go/internal/cache"
	"github.com/fhuszti/videos-ms-go/internal/config"
	"github.com/fhuszti/videos-ms-go/internal/db"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/renderer"
	"github.com/fhuszti/videos-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/videos-ms-go/internal/staging"
	"github.com/fhuszti/videos-ms-go/internal/storage"
	"github.com/fhuszti/videos-ms-go/internal/task"
	"github.com/fhuszti/videos-ms-go/internal/transcription"
	videoSvc "github.com/fhuszti/videos-ms-go/internal/usecase/video"
	msuuid "github.com/fhuszti/videos-ms-go/internal/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	strg := initStorage(ctx, cfg)
	initBuckets(ctx, strg, cfg.Buckets())
	videoStore, err := strg.WithBucket(cfg.VideosBucket)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to bind bucket %q: %v", cfg.VideosBucket, err)
		os.Exit(1)
	}

	transcriber := initTranscriber(ctx, cfg)
	stager := initStager(ctx, cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mtr := metrics.NewMetrics(reg)

	var ca port.Cache
	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		ca = cache.NewCache(cfg.RedisAddr, cfg.RedisPassword, cfg.StatusCacheTTL)
		d := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword, cfg.ReconcileDelay, cfg.ReconcileMaxRetry)
		defer func() { _ = d.Close() }()
		dispatcher = d
		logger.Info(ctx, "✅  Redis cache and background reconciliation enabled")
	} else {
		ca = cache.NewNoop()
		dispatcher = task.NewNoopDispatcher()
		logger.Warn(ctx, "⚠️  Redis not configured, caching and background reconciliation are disabled")
	}

	videoRepo := mariadb.NewVideoRepository(database.DB)
	uploader := videoSvc.NewUploadCoordinator(videoStore, mtr, videoSvc.UploadConfig{
		PartSize:    cfg.UploadPartSize,
		MaxFileSize: cfg.MaxUploadSize,
		MaxAttempts: cfg.UploadMaxAttempts,
		RetryDelay:  cfg.UploadRetryDelay,
	})
	jobs := videoSvc.NewTranscriptionJobManager(transcriber, mtr, videoSvc.TranscriptionConfig{
		LanguageCode:  cfg.TranscriptionLanguage,
		JobNamePrefix: cfg.TranscriptionJobPrefix,
		OutputBucket:  cfg.TranscriptsBucket,
	}, msuuid.NewUUID)
	reconciler := videoSvc.NewStatusReconciler(videoRepo)

	r := newRouter(services{
		ingester:     videoSvc.NewVideoIngester(stager, uploader, jobs, reconciler, dispatcher, msuuid.NewUUID),
		statusGetter: videoSvc.NewTranscriptionStatusGetter(videoRepo, jobs, reconciler),
		lister:       videoSvc.NewVideoLister(videoRepo),
		renderer:     renderer.NewHTTPRenderer(ca),
		metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	listenRouter(ctx, r, cfg, database)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

func initStorage(ctx context.Context, cfg *config.Settings) *storage.Strg {
	strg, err := storage.NewMinioClient(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func initBuckets(ctx context.Context, strg *storage.Strg, buckets []string) {
	for _, b := range buckets {
		if err := strg.InitBucket(b); err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", b, err)
			os.Exit(1)
		}
	}
}

func initTranscriber(ctx context.Context, cfg *config.Settings) port.Transcriber {
	t, err := transcription.NewAWSTranscriber(ctx, cfg.AWSRegion, cfg.TranscribeEndpoint)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize transcription client: %v", err)
		os.Exit(1)
	}
	return t
}

func initStager(ctx context.Context, cfg *config.Settings) port.Stager {
	stager, err := staging.NewTempStager(cfg.ScratchDir, cfg.MaxUploadSize)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to prepare scratch directory %q: %v", cfg.ScratchDir, err)
		os.Exit(1)
	}
	logger.Infof(ctx, "staging uploads in %q (max %s, parts of %s)",
		cfg.ScratchDir, humanize.IBytes(uint64(cfg.MaxUploadSize)), humanize.IBytes(uint64(cfg.UploadPartSize)))
	return stager
}

func listenRouter(ctx context.Context, r http.Handler, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// uploads stream through the handler, so give them time to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
