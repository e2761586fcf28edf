package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"financas/internal/amqp"
	"financas/internal/cli"
	"financas/internal/ledger"
	applog "financas/internal/log"
	"financas/internal/sync"
	"financas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting financas-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	kv, closeStore := cli.OpenStore(logger, cfg)
	defer closeStore()

	store := ledger.NewStore(kv)
	syncEngine := sync.NewEngine(store, kv, cfg.GistBaseURL)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), cfg.SyncTimeout)
	deviceID := syncEngine.DeviceID(startupCtx)
	startupCancel()
	if deviceID == "" {
		logger.Info("Sync is not configured yet, worker will idle until setup completes")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(syncEngine, amqpClient, cfg.AutoSyncDebounce, deviceID)

	ctx := cli.GracefulShutdown(logger, 10*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return syncWorker.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
