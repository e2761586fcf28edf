package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"financas/internal/amqp"
	"financas/internal/cli"
	apphttp "financas/internal/http"
	"financas/internal/ledger"
	applog "financas/internal/log"
	"financas/internal/services"
	gsheet "financas/internal/sheets/google"
	"financas/internal/sync"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	logger.Info("Starting financas server")

	cfg := cli.LoadAndValidateConfig(logger)

	kv, closeStore := cli.OpenStore(logger, cfg)
	defer closeStore()

	store := ledger.NewStore(kv)

	// AMQP is optional: without it change notifications are skipped and
	// the API keeps working against the local store.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change notifications", "error", err)
		} else {
			amqpClient = client
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled")
	}

	syncEngine := sync.NewEngine(store, kv, cfg.GistBaseURL)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), cfg.SyncTimeout)
	syncEngine.SyncOnLoad(startupCtx)
	deviceID := syncEngine.DeviceID(startupCtx)
	startupCancel()

	ledgerService := services.NewLedgerService(store, amqpClient, deviceID)
	reports := services.NewReports(store)
	fixedProcessor := services.NewFixedExpenseProcessor(store)

	server := apphttp.NewServer(ledgerService, reports, fixedProcessor, syncEngine, logger)
	server.EnableMetrics()
	defer server.Close()

	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		server.SetExporter(services.NewExporter(store, sheetsClient))
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        server.Handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		srv.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
