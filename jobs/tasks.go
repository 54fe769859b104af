// Package jobs runs the background work: a nightly recompute of product
// costs from their bills of materials, and a periodic low-stock scan that
// logs anything under the threshold. The cost recompute is a safety net;
// purchases already refresh costs inline.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue all stockbook jobs run on.
	QueueDefault = "default"
	// TaskCostRefresh recomputes every product cost from its components.
	TaskCostRefresh = "cost:refresh"
	// TaskLowStockScan logs parts and products under the stock threshold.
	TaskLowStockScan = "stock:lowscan"
)

// CostRefresher recomputes product costs. Satisfied by the products
// service.
type CostRefresher interface {
	RecomputeAllCosts(ctx context.Context) error
}

// LowStockEntry is one item under the threshold.
type LowStockEntry struct {
	ID    int64
	Name  string
	Units int64
}

// LowStockScanner reads the stock levels the scan reports on.
type LowStockScanner interface {
	LowStockParts(ctx context.Context, threshold int64) ([]LowStockEntry, error)
	LowStockProducts(ctx context.Context, threshold int64) ([]LowStockEntry, error)
}

// LowStockPayload carries the scan threshold.
type LowStockPayload struct {
	Threshold int64 `json:"threshold"`
}

// NewCostRefreshTask constructs the cost refresh task. It carries no
// payload; the recompute always covers the whole catalog.
func NewCostRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskCostRefresh, nil)
}

// NewLowStockScanTask constructs a low-stock scan task.
func NewLowStockScanTask(payload LowStockPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}

// HandleCostRefresh returns the handler for TaskCostRefresh.
func HandleCostRefresh(logger *slog.Logger, refresher CostRefresher) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if err := refresher.RecomputeAllCosts(ctx); err != nil {
			logger.Error("cost refresh failed", slog.Any("error", err))
			return err
		}
		logger.Info("cost refresh completed")
		return nil
	}
}

// HandleLowStockScan returns the handler for TaskLowStockScan.
func HandleLowStockScan(logger *slog.Logger, scanner LowStockScanner) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LowStockPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		parts, err := scanner.LowStockParts(ctx, payload.Threshold)
		if err != nil {
			return err
		}
		products, err := scanner.LowStockProducts(ctx, payload.Threshold)
		if err != nil {
			return err
		}
		for _, p := range parts {
			logger.Warn("part below stock threshold",
				slog.Int64("part_id", p.ID),
				slog.String("name", p.Name),
				slog.Int64("units", p.Units))
		}
		for _, p := range products {
			logger.Warn("product below stock threshold",
				slog.Int64("product_id", p.ID),
				slog.String("name", p.Name),
				slog.Int64("units", p.Units))
		}
		logger.Info("low stock scan completed",
			slog.Int("parts", len(parts)),
			slog.Int("products", len(products)))
		return nil
	}
}
