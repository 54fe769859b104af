package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/stockbook/stockbook/internal/app"
	"github.com/stockbook/stockbook/internal/home"
	"github.com/stockbook/stockbook/internal/platform/db"
	"github.com/stockbook/stockbook/internal/products"
	"github.com/stockbook/stockbook/jobs"
)

// lowStockAdapter narrows the dashboard repository to the scan interface.
type lowStockAdapter struct {
	repo home.Repository
}

func (a lowStockAdapter) LowStockParts(ctx context.Context, threshold int64) ([]jobs.LowStockEntry, error) {
	items, err := a.repo.LowStockParts(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return toEntries(items), nil
}

func (a lowStockAdapter) LowStockProducts(ctx context.Context, threshold int64) ([]jobs.LowStockEntry, error) {
	items, err := a.repo.LowStockProducts(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return toEntries(items), nil
}

func toEntries(items []home.LowStockItem) []jobs.LowStockEntry {
	out := make([]jobs.LowStockEntry, 0, len(items))
	for _, item := range items {
		out = append(out, jobs.LowStockEntry{ID: item.ID, Name: item.Name, Units: item.Units})
	}
	return out
}

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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	productsService := products.NewService(products.NewRepository(pool))
	scanner := lowStockAdapter{repo: home.NewRepository(pool)}

	lowStockTask, err := jobs.NewLowStockScanTask(jobs.LowStockPayload{Threshold: cfg.LowStockThreshold})
	if err != nil {
		logger.Error("build low stock task", slog.Any("error", err))
		os.Exit(1)
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCostRefresh, Handler: jobs.HandleCostRefresh(logger, productsService)},
			{Type: jobs.TaskLowStockScan, Handler: jobs.HandleLowStockScan(logger, scanner)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: jobs.NewCostRefreshTask()},
			{Spec: "0 * * * *", Task: lowStockTask},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker", slog.Any("error", err))
		os.Exit(1)
	}
}
