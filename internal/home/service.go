// Package home builds the dashboard snapshot: draft sales awaiting
// shipment plus low-stock parts and products. The snapshot is cached in
// Redis and concurrent rebuilds are collapsed to one query.
package home

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/stockbook/stockbook/internal/platform/cache"
)

const cacheKey = "home:dashboard"

type Service struct {
	repo      Repository
	redis     *redis.Client
	logger    *slog.Logger
	threshold int64
	ttl       time.Duration
	group     singleflight.Group
}

func NewService(repo Repository, redisClient *redis.Client, logger *slog.Logger, threshold int64, ttl time.Duration) *Service {
	return &Service{
		repo:      repo,
		redis:     redisClient,
		logger:    logger,
		threshold: threshold,
		ttl:       ttl,
	}
}

// Dashboard returns the cached snapshot when fresh, otherwise rebuilds it.
// Cache failures degrade to a direct rebuild rather than failing the page.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var cached Dashboard
	hit, err := cache.GetJSON(ctx, s.redis, cacheKey, &cached)
	if err != nil {
		s.logger.Warn("dashboard cache read failed", slog.Any("error", err))
	}
	if hit {
		return cached, nil
	}

	v, err, _ := s.group.Do(cacheKey, func() (any, error) {
		d, err := s.build(ctx)
		if err != nil {
			return Dashboard{}, err
		}
		if err := cache.SetJSON(ctx, s.redis, cacheKey, d, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", slog.Any("error", err))
		}
		return d, nil
	})
	if err != nil {
		return Dashboard{}, err
	}
	return v.(Dashboard), nil
}

// Invalidate drops the cached snapshot so the next read rebuilds it.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.redis.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warn("dashboard cache invalidate failed", slog.Any("error", err))
	}
}

func (s *Service) build(ctx context.Context) (Dashboard, error) {
	drafts, err := s.repo.DraftSales(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	parts, err := s.repo.LowStockParts(ctx, s.threshold)
	if err != nil {
		return Dashboard{}, err
	}
	products, err := s.repo.LowStockProducts(ctx, s.threshold)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		DraftSales:       drafts,
		LowStockParts:    parts,
		LowStockProducts: products,
	}, nil
}
