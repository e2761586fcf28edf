// Command financas-init connects a deployment to its shared GitHub
// gist from the terminal, so headless installs do not need to call the
// setup endpoint over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"financas/internal/cli"
	"financas/internal/ledger"
	applog "financas/internal/log"
	"financas/internal/sync"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentSync)

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		logger.Error("Set GITHUB_TOKEN to a GitHub personal access token with the gist scope")
		os.Exit(1)
	}
	deviceName := os.Getenv("DEVICE_NAME")

	cfg := cli.LoadAndValidateConfig(logger)

	kv, closeStore := cli.OpenStore(logger, cfg)
	defer closeStore()

	store := ledger.NewStore(kv)
	engine := sync.NewEngine(store, kv, cfg.GistBaseURL)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SyncTimeout)
	defer cancel()

	status, err := engine.Setup(ctx, token, deviceName)
	if err != nil {
		logger.Error("Sync setup failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Connected as %s\n", status.Username)
	fmt.Printf("Gist: %s\n", status.GistID)
	fmt.Printf("Device: %s (%s)\n", status.DeviceName, status.DeviceID)

	syncCtx, syncCancel := context.WithTimeout(context.Background(), cfg.SyncTimeout)
	defer syncCancel()
	if err := engine.Sync(syncCtx); err != nil {
		logger.Warn("Initial sync failed", "error", err)
		return
	}
	fmt.Printf("Initial sync complete at %s\n", time.Now().Format(time.RFC3339))
}
