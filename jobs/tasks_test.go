package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) RecomputeAllCosts(ctx context.Context) error {
	f.calls++
	return f.err
}

type fakeScanner struct {
	parts    []LowStockEntry
	products []LowStockEntry
	seen     []int64
}

func (f *fakeScanner) LowStockParts(ctx context.Context, threshold int64) ([]LowStockEntry, error) {
	f.seen = append(f.seen, threshold)
	return f.parts, nil
}

func (f *fakeScanner) LowStockProducts(ctx context.Context, threshold int64) ([]LowStockEntry, error) {
	return f.products, nil
}

func TestHandleCostRefresh(t *testing.T) {
	refresher := &fakeRefresher{}
	handler := HandleCostRefresh(slog.Default(), refresher)

	require.NoError(t, handler(context.Background(), NewCostRefreshTask()))
	require.Equal(t, 1, refresher.calls)

	refresher.err = errors.New("db down")
	require.Error(t, handler(context.Background(), NewCostRefreshTask()))
}

func TestHandleLowStockScan(t *testing.T) {
	scanner := &fakeScanner{
		parts: []LowStockEntry{{ID: 1, Name: "bolt", Units: 2}},
	}
	handler := HandleLowStockScan(slog.Default(), scanner)

	task, err := NewLowStockScanTask(LowStockPayload{Threshold: 5})
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	require.Equal(t, []int64{5}, scanner.seen)
}
