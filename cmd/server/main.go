// Package main provides the API server entry point for the toy resale service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flipperzap/internal/ai"
	"github.com/flipperzap/internal/api"
	"github.com/flipperzap/internal/config"
	"github.com/flipperzap/internal/logging"
	"github.com/flipperzap/internal/marketplace"
	"github.com/flipperzap/internal/service"
	"github.com/flipperzap/internal/storage"
	"github.com/flipperzap/internal/worker"
	"github.com/flipperzap/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.GetGlobalLogger().WithError(err).Fatal("Failed to load configuration")
	}

	logging.InitGlobalLogger(
		logging.ParseLogLevel(cfg.Logging.Level),
		logging.ParseLogFormat(cfg.Logging.Format),
	)
	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":       cfg.Logging.Level,
		"format":      cfg.Logging.Format,
		"environment": cfg.Environment,
	}).Info("Structured logging initialized")

	// Storage: in-memory store, optional Redis scan cache, local upload dir
	store := storage.NewMemoryStore()

	var scanCache *storage.ScanCache
	var redisCache *storage.RedisCache
	if cfg.Redis.Addr != "" {
		redisCache, err = storage.NewRedisCache(&cfg.Redis)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisCache.Close()
		scanCache = storage.NewScanCache(redisCache, cfg.Cache.TTL)
		logger.WithField("addr", cfg.Redis.Addr).Info("Scan cache enabled")
	} else {
		logger.Info("Scan cache disabled, REDIS_ADDR not set")
	}

	uploads, err := storage.NewUploadStore(cfg.Upload.Dir, cfg.Upload.MaxSizeBytes)
	if err != nil {
		logger.WithError(err).Fatal("Failed to prepare upload directory")
	}

	// Providers
	aiService := ai.NewService(&cfg.AI)
	marketplaceService := marketplace.NewService(&cfg.Marketplace)

	// Background analysis pool
	pool := worker.NewPool(cfg.Worker.Concurrency, cfg.Worker.QueueSize, cfg.Worker.AnalysisTimeout, logger)
	if err := pool.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start worker pool")
	}

	// Realtime hub
	hub := ws.NewHub(logger)

	// Business services
	scanService := service.NewScanService(store, scanCache, aiService, pool, hub, logger)
	listingService := service.NewListingService(store, marketplaceService, hub, logger)
	connectionService := service.NewConnectionService(store)
	pricingService := service.NewPricingService()

	server := api.NewServer(&api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: shutdownTimeout,
		RateLimitRPS:    cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst:  cfg.RateLimit.Burst,
		AIMode:          cfg.AIMode(),
		MarketplaceMode: cfg.MarketplaceMode(),
		Environment:     cfg.Environment,
	}, logger, scanService, listingService, connectionService, pricingService, uploads, hub)

	server.AddReadyCheck("worker_pool", func(ctx context.Context) error {
		if !pool.Status().Running {
			return fmt.Errorf("worker pool not running")
		}
		return nil
	})
	if redisCache != nil {
		server.AddReadyCheck("redis", redisCache.Ping)
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	if err := pool.Stop(ctx); err != nil {
		logger.WithError(err).Error("Worker pool shutdown failed")
	}

	logger.Info("Server stopped")
}
