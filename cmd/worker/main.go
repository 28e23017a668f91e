package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/billmitra/billmitra/internal/app"
	"github.com/billmitra/billmitra/internal/billing"
	"github.com/billmitra/billmitra/internal/export"
	jobmetrics "github.com/billmitra/billmitra/internal/jobs"
	"github.com/billmitra/billmitra/internal/platform/cache"
	"github.com/billmitra/billmitra/internal/platform/db"
	"github.com/billmitra/billmitra/internal/template"
	"github.com/billmitra/billmitra/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	billingRepo := billing.NewRepository(pool)
	billingService := billing.NewService(billingRepo)

	templateRepo := template.NewRepository(pool)
	templateService := template.NewService(templateRepo, redisClient, logger)

	page := export.PageA4
	if cfg.ExportPageSize == "Letter" {
		page = export.PageLetter
	}
	exportJob := export.NewJob(export.JobConfig{
		Store:      export.NewRepository(pool),
		Documents:  billingService,
		Templates:  templateService,
		StorageDir: cfg.ExportDir,
		Page:       page,
		Timeout:    cfg.ExportTimeout,
		Metrics:    jobmetrics.NewMetrics(nil),
		Logger:     logger,
	})

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeDocumentExport, Handler: exportJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
