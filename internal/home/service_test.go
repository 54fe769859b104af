package home

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	drafts   []DraftSale
	parts    []LowStockItem
	products []LowStockItem
	builds   int
}

func (r *memoryRepo) DraftSales(ctx context.Context) ([]DraftSale, error) {
	r.builds++
	return r.drafts, nil
}

func (r *memoryRepo) LowStockParts(ctx context.Context, threshold int64) ([]LowStockItem, error) {
	var out []LowStockItem
	for _, p := range r.parts {
		if p.Units < threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) LowStockProducts(ctx context.Context, threshold int64) ([]LowStockItem, error) {
	var out []LowStockItem
	for _, p := range r.products {
		if p.Units < threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestDashboardFiltersByThreshold(t *testing.T) {
	repo := &memoryRepo{
		drafts: []DraftSale{{ID: 1, ClientName: "Acme", Total: 215}},
		parts: []LowStockItem{
			{ID: 1, Name: "bolt", Units: 2},
			{ID: 2, Name: "plate", Units: 50},
		},
		products: []LowStockItem{{ID: 1, Name: "widget", Units: 0}},
	}
	svc := NewService(repo, testRedis(t), slog.Default(), 5, time.Minute)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, d.DraftSales, 1)
	require.Len(t, d.LowStockParts, 1)
	require.Equal(t, "bolt", d.LowStockParts[0].Name)
	require.Len(t, d.LowStockProducts, 1)
}

func TestDashboardServesFromCache(t *testing.T) {
	repo := &memoryRepo{drafts: []DraftSale{{ID: 1}}}
	svc := NewService(repo, testRedis(t), slog.Default(), 5, time.Minute)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	_, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.builds)
}

func TestInvalidateForcesRebuild(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, testRedis(t), slog.Default(), 5, time.Minute)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	svc.Invalidate(ctx)
	_, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.builds)
}
