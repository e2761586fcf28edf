// Package sync keeps the local ledger and the remote gist document in
// step. The remote document is the whole snapshot; conflict resolution
// is last-write-wins at document level, a full sync pulls before it
// pushes so remote changes land first.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"financas/internal/core"
	"financas/internal/gist"
	"financas/internal/ledger"
	"financas/internal/storage"
)

const configKey = "financas_github_config"

var (
	ErrNotConfigured  = errors.New("sync not configured")
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrDeviceBlocked  = errors.New("device is blocked")
)

// Config is the persisted sync state of this installation.
type Config struct {
	Token      string    `json:"token"`
	GistID     string    `json:"gistId"`
	Username   string    `json:"username"`
	LastSync   time.Time `json:"lastSync"`
	DeviceID   string    `json:"deviceId"`
	DeviceName string    `json:"deviceName"`
}

// Status is the sync state reported to clients. The token never leaves
// the server.
type Status struct {
	Configured bool      `json:"configured"`
	Username   string    `json:"username,omitempty"`
	GistID     string    `json:"gistId,omitempty"`
	LastSync   time.Time `json:"lastSync"`
	DeviceID   string    `json:"deviceId,omitempty"`
	DeviceName string    `json:"deviceName,omitempty"`
}

// Engine coordinates pull and push against the remote document. At
// most one sync operation runs at a time; concurrent calls fail fast
// with ErrSyncInProgress.
type Engine struct {
	store    *ledger.Store
	kv       storage.KV
	baseURL  string
	inFlight atomic.Bool
}

func NewEngine(store *ledger.Store, kv storage.KV, baseURL string) *Engine {
	return &Engine{store: store, kv: kv, baseURL: baseURL}
}

// Configured reports whether a token and gist id are stored.
func (e *Engine) Configured(ctx context.Context) bool {
	cfg, err := e.loadConfig(ctx)
	return err == nil && cfg.Token != "" && cfg.GistID != ""
}

// Setup validates the token, locates or creates the remote document
// and stores the resulting configuration. The device identity is
// created on first setup and survives reconnects.
func (e *Engine) Setup(ctx context.Context, token, deviceName string) (Status, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return Status{}, ErrSyncInProgress
	}
	defer e.inFlight.Store(false)

	client := gist.NewClient(e.baseURL, token)
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("validate token: %w", err)
	}

	gistID, found, err := client.FindDocument(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("find sync document: %w", err)
	}
	if !found {
		snap, err := e.store.Export(ctx)
		if err != nil {
			return Status{}, err
		}
		content, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return Status{}, fmt.Errorf("marshal snapshot: %w", err)
		}
		gistID, err = client.CreateDocument(ctx, content)
		if err != nil {
			return Status{}, fmt.Errorf("create sync document: %w", err)
		}
		slog.InfoContext(ctx, "Created sync document", "gist_id", gistID)
	}

	// Keep the existing device identity when reconnecting.
	previous, err := e.loadConfig(ctx)
	deviceID := previous.DeviceID
	if err != nil || deviceID == "" {
		deviceID = "dev_" + uuid.NewString()
	}
	if deviceName == "" {
		deviceName = previous.DeviceName
	}
	if deviceName == "" {
		deviceName = "financas-server"
	}

	cfg := Config{
		Token:      token,
		GistID:     gistID,
		Username:   user.Login,
		LastSync:   time.Now().UTC(),
		DeviceID:   deviceID,
		DeviceName: deviceName,
	}
	if err := e.saveConfig(ctx, cfg); err != nil {
		return Status{}, err
	}

	slog.InfoContext(ctx, "Sync configured",
		"username", user.Login,
		"gist_id", gistID,
		"device_id", deviceID)
	return statusFrom(cfg), nil
}

// Pull downloads the remote document and replaces local state with it.
func (e *Engine) Pull(ctx context.Context) error {
	if !e.inFlight.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer e.inFlight.Store(false)
	return e.pull(ctx)
}

// Push uploads the local state, refreshing this device's entry in the
// remote device registry.
func (e *Engine) Push(ctx context.Context) error {
	if !e.inFlight.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer e.inFlight.Store(false)
	return e.push(ctx)
}

// Sync pulls then pushes, so changes from other devices are applied
// before local state becomes the new remote document.
func (e *Engine) Sync(ctx context.Context) error {
	if !e.inFlight.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer e.inFlight.Store(false)

	if err := e.pull(ctx); err != nil {
		return err
	}
	return e.push(ctx)
}

// AutoSync pushes in the background after a local change. Not being
// configured is normal and errors are logged, never propagated.
func (e *Engine) AutoSync(ctx context.Context) {
	err := e.Push(ctx)
	switch {
	case err == nil:
		slog.InfoContext(ctx, "Auto-sync push completed")
	case errors.Is(err, ErrNotConfigured):
	case errors.Is(err, ErrSyncInProgress):
		slog.DebugContext(ctx, "Auto-sync skipped, sync already running")
	default:
		slog.ErrorContext(ctx, "Auto-sync push failed", "error", err)
	}
}

// SyncOnLoad pulls at startup so the server begins from the freshest
// remote state. Errors are logged, never propagated.
func (e *Engine) SyncOnLoad(ctx context.Context) {
	err := e.Pull(ctx)
	switch {
	case err == nil:
		slog.InfoContext(ctx, "Startup pull completed")
	case errors.Is(err, ErrNotConfigured):
	default:
		slog.ErrorContext(ctx, "Startup pull failed", "error", err)
	}
}

func (e *Engine) pull(ctx context.Context) (err error) {
	cfg, client, err := e.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { recordSync("pull", err) }()

	content, err := client.GetDocument(ctx, cfg.GistID)
	if err != nil {
		return fmt.Errorf("download sync document: %w", err)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return fmt.Errorf("parse sync document: %w", err)
	}
	if blockedIn(snap.Devices, cfg.DeviceID) {
		return ErrDeviceBlocked
	}
	if err := e.store.Import(ctx, snap); err != nil {
		return fmt.Errorf("apply sync document: %w", err)
	}

	cfg.LastSync = time.Now().UTC()
	return e.saveConfig(ctx, cfg)
}

func (e *Engine) push(ctx context.Context) (err error) {
	cfg, client, err := e.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { recordSync("push", err) }()

	remoteDevices, err := e.remoteDevices(ctx, client, cfg.GistID)
	if err != nil {
		return err
	}
	if blockedIn(remoteDevices, cfg.DeviceID) {
		return ErrDeviceBlocked
	}

	snap, err := e.store.Export(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	snap.Devices = mergeDevice(remoteDevices, core.Device{
		ID:       cfg.DeviceID,
		Name:     cfg.DeviceName,
		LastSync: now,
	})
	snap.SyncedAt = &now

	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := client.UpdateDocument(ctx, cfg.GistID, content); err != nil {
		return fmt.Errorf("upload sync document: %w", err)
	}

	cfg.LastSync = now
	return e.saveConfig(ctx, cfg)
}

// Devices lists the installations registered in the remote document.
func (e *Engine) Devices(ctx context.Context) ([]core.Device, error) {
	cfg, client, err := e.connect(ctx)
	if err != nil {
		return nil, err
	}
	return e.remoteDevices(ctx, client, cfg.GistID)
}

// RemoveDevice deletes a device entry from the remote registry. The
// removed installation loses nothing locally, it simply reappears on
// its next push.
func (e *Engine) RemoveDevice(ctx context.Context, deviceID string) error {
	return e.updateDevices(ctx, func(devices []core.Device) ([]core.Device, error) {
		filtered := devices[:0]
		for _, d := range devices {
			if d.ID != deviceID {
				filtered = append(filtered, d)
			}
		}
		return filtered, nil
	})
}

// SetDeviceBlocked toggles the blocked flag on a remote device entry.
// A blocked device is refused pull and push until unblocked.
func (e *Engine) SetDeviceBlocked(ctx context.Context, deviceID string, blocked bool) error {
	return e.updateDevices(ctx, func(devices []core.Device) ([]core.Device, error) {
		for i := range devices {
			if devices[i].ID == deviceID {
				devices[i].Blocked = blocked
				return devices, nil
			}
		}
		return nil, core.ErrNotFound
	})
}

func (e *Engine) updateDevices(ctx context.Context, apply func([]core.Device) ([]core.Device, error)) error {
	cfg, client, err := e.connect(ctx)
	if err != nil {
		return err
	}

	content, err := client.GetDocument(ctx, cfg.GistID)
	if err != nil {
		return fmt.Errorf("download sync document: %w", err)
	}
	var snap ledger.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return fmt.Errorf("parse sync document: %w", err)
	}

	devices, err := apply(snap.Devices)
	if err != nil {
		return err
	}
	snap.Devices = devices

	updated, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return client.UpdateDocument(ctx, cfg.GistID, updated)
}

// Disconnect drops the stored configuration. Local data and the remote
// document are both left intact.
func (e *Engine) Disconnect(ctx context.Context) error {
	if err := e.kv.Delete(ctx, configKey); err != nil {
		return fmt.Errorf("remove sync config: %w", err)
	}
	slog.InfoContext(ctx, "Sync disconnected")
	return nil
}

// Status reports the current configuration without the token.
func (e *Engine) Status(ctx context.Context) Status {
	cfg, err := e.loadConfig(ctx)
	if err != nil || cfg.Token == "" || cfg.GistID == "" {
		return Status{}
	}
	return statusFrom(cfg)
}

// DeviceID returns the configured device identity, empty when not set
// up yet.
func (e *Engine) DeviceID(ctx context.Context) string {
	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return ""
	}
	return cfg.DeviceID
}

func (e *Engine) connect(ctx context.Context) (Config, *gist.Client, error) {
	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return Config{}, nil, err
	}
	if cfg.Token == "" || cfg.GistID == "" {
		return Config{}, nil, ErrNotConfigured
	}
	return cfg, gist.NewClient(e.baseURL, cfg.Token), nil
}

func (e *Engine) remoteDevices(ctx context.Context, client *gist.Client, gistID string) ([]core.Device, error) {
	content, err := client.GetDocument(ctx, gistID)
	if err != nil {
		return nil, fmt.Errorf("download sync document: %w", err)
	}
	var snap ledger.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return nil, fmt.Errorf("parse sync document: %w", err)
	}
	return snap.Devices, nil
}

func (e *Engine) loadConfig(ctx context.Context) (Config, error) {
	data, ok, err := e.kv.Get(ctx, configKey)
	if err != nil {
		return Config{}, fmt.Errorf("load sync config: %w", err)
	}
	if !ok {
		return Config{}, nil
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse sync config: %w", err)
	}
	return cfg, nil
}

func (e *Engine) saveConfig(ctx context.Context, cfg Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal sync config: %w", err)
	}
	if err := e.kv.Put(ctx, configKey, data); err != nil {
		return fmt.Errorf("save sync config: %w", err)
	}
	return nil
}

func statusFrom(cfg Config) Status {
	return Status{
		Configured: true,
		Username:   cfg.Username,
		GistID:     cfg.GistID,
		LastSync:   cfg.LastSync,
		DeviceID:   cfg.DeviceID,
		DeviceName: cfg.DeviceName,
	}
}

func blockedIn(devices []core.Device, deviceID string) bool {
	for _, d := range devices {
		if d.ID == deviceID {
			return d.Blocked
		}
	}
	return false
}

func mergeDevice(devices []core.Device, self core.Device) []core.Device {
	merged := make([]core.Device, 0, len(devices)+1)
	for _, d := range devices {
		if d.ID != self.ID {
			merged = append(merged, d)
		}
	}
	return append(merged, self)
}
