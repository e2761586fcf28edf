package main

import (
	"context"
	"time"

	"financas/internal/amqp"
	"financas/internal/cli"
	"financas/internal/core"
	"financas/internal/ledger"
	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/sync"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	kv, closeStore := cli.OpenStore(logger, cfg)
	defer closeStore()

	store := ledger.NewStore(kv)
	processor := services.NewFixedExpenseProcessor(store)

	// Publishing is optional. When AMQP is up, generated expenses
	// trigger a remote sync through financas-worker.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in local-only mode", "error", err)
		} else {
			amqpClient = client
			defer amqpClient.Close()
		}
	}

	syncEngine := sync.NewEngine(store, kv, cfg.GistBaseURL)
	deviceID := syncEngine.DeviceID(context.Background())

	process := func(ctx context.Context) {
		created, err := processor.Materialize(ctx, core.Today())
		if err != nil {
			logger.Error("Fixed expense processing failed", "error", err)
			return
		}
		logger.Info("Fixed expense processing complete", "created", created)
		if created > 0 && amqpClient != nil {
			if err := amqpClient.PublishSyncRequest(ctx, "fixed_expenses_generated", deviceID); err != nil {
				logger.Error("Failed to publish sync request", "error", err)
			}
		}
	}

	ctx := cli.GracefulShutdown(logger, 10*time.Second, nil)

	logger.Info("Recurring expense processor configured", "interval", cfg.RecurringInterval)
	process(ctx)

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Recurring worker stopped gracefully")
			return
		case <-ticker.C:
			process(ctx)
		}
	}
}
