package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Stepan2222000/connect-article-avito/internal/server"
	"github.com/Stepan2222000/connect-article-avito/internal/setup"
	"github.com/Stepan2222000/connect-article-avito/shared/config"
	"github.com/Stepan2222000/connect-article-avito/shared/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configFolder   string
		limit          int64
		batchSize      int
		testConnection bool
	)
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Int64Var(&limit, "limit", 0, "max advertisements to process (0 = all)")
	flag.IntVar(&batchSize, "batch-size", 0, "override configured batch size")
	flag.BoolVar(&testConnection, "test-connection", false, "verify db connectivity and exit")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	if batchSize > 0 {
		cfg.Public.BatchSize = batchSize
	}
	if limit == 0 && cfg.Public.ProcessingLimit > 0 {
		limit = int64(cfg.Public.ProcessingLimit)
	}

	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to initialize", "error", err)
		return 1
	}
	defer deps.Storage.Cleanup()

	if testConnection {
		if err := deps.Storage.TestConnection(ctx); err != nil {
			logger.Log.Error("connection test failed", "error", err)
			return 1
		}
		logger.Log.Info("connection test passed")
		return 0
	}

	if cfg.Public.MonitoringAddr != "" {
		go func() {
			if err := server.Serve(ctx, cfg.Public.MonitoringAddr, deps.Handler); err != nil {
				logger.Log.Error("monitoring server failed", "error", err)
			}
		}()
	}

	stats, err := deps.Engine.Run(ctx, limit)
	if err != nil {
		if ctx.Err() != nil {
			logger.Log.Warn("run interrupted", "processed", stats.TotalProcessed)
			return 130
		}
		logger.Log.Error("extraction run failed", "error", err)
		return 1
	}

	return 0
}
