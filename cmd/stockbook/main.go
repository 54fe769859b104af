package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stockbook/stockbook/internal/app"
	"github.com/stockbook/stockbook/internal/clients"
	"github.com/stockbook/stockbook/internal/clipboard"
	"github.com/stockbook/stockbook/internal/controller"
	"github.com/stockbook/stockbook/internal/home"
	"github.com/stockbook/stockbook/internal/manufacturing"
	"github.com/stockbook/stockbook/internal/parts"
	"github.com/stockbook/stockbook/internal/platform/cache"
	"github.com/stockbook/stockbook/internal/platform/db"
	"github.com/stockbook/stockbook/internal/products"
	"github.com/stockbook/stockbook/internal/purchasing"
	"github.com/stockbook/stockbook/internal/reports"
	"github.com/stockbook/stockbook/internal/reps"
	"github.com/stockbook/stockbook/internal/sales"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	partsService := parts.NewService(parts.NewRepository(pool))
	productsService := products.NewService(products.NewRepository(pool))
	purchasingService := purchasing.NewService(purchasing.NewRepository(pool), logger)
	manufacturingService := manufacturing.NewService(manufacturing.NewRepository(pool), logger, cfg.AllowNegativeStock)
	salesService := sales.NewService(sales.NewRepository(pool), logger, cfg.AllowNegativeStock)
	clientsService := clients.NewService(clients.NewRepository(pool))
	repsService := reps.NewService(reps.NewRepository(pool))
	homeService := home.NewService(home.NewRepository(pool), redisClient, logger, cfg.LowStockThreshold, cfg.DashboardCacheTTL)
	reportsService := reports.NewService(salesService, partsService)

	ctrl := controller.New(logger, controller.Services{
		Parts:         partsService,
		Products:      productsService,
		Purchasing:    purchasingService,
		Manufacturing: manufacturingService,
		Sales:         salesService,
		Clients:       clientsService,
		Reps:          repsService,
		Home:          homeService,
	}, &clipboard.Buffer{})

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		PartsHandler:         parts.NewHandler(logger, partsService),
		ProductsHandler:      products.NewHandler(logger, productsService),
		PurchasingHandler:    purchasing.NewHandler(logger, purchasingService),
		ManufacturingHandler: manufacturing.NewHandler(logger, manufacturingService),
		SalesHandler:         sales.NewHandler(logger, salesService),
		ClientsHandler:       clients.NewHandler(logger, clientsService),
		RepsHandler:          reps.NewHandler(logger, repsService),
		HomeHandler:          home.NewHandler(logger, homeService),
		ReportsHandler:       reports.NewHandler(logger, reportsService),
		ControllerHandler:    controller.NewHandler(logger, ctrl),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ctrl.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("runtime", slog.Any("error", err))
		os.Exit(1)
	}
}
