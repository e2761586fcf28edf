package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/amqp"
	"financas/internal/sync"
)

// SyncWorker consumes change notifications from AMQP and triggers a
// remote synchronization after a quiet period, so a burst of edits on
// one device results in a single push instead of one per change.
type SyncWorker struct {
	engine   *sync.Engine
	client   *amqp.Client
	debounce time.Duration
	deviceID string

	kick chan struct{}
}

func NewSyncWorker(engine *sync.Engine, client *amqp.Client, debounce time.Duration, deviceID string) *SyncWorker {
	return &SyncWorker{
		engine:   engine,
		client:   client,
		debounce: debounce,
		deviceID: deviceID,
		kick:     make(chan struct{}, 1),
	}
}

// HandleSyncRequest processes a single change notification. Messages
// published by other devices are ignored: their changes arrive through
// pull, not through a second push from this process.
func (w *SyncWorker) HandleSyncRequest(ctx context.Context, msg *amqp.SyncRequestMessage) error {
	if w.deviceID != "" && msg.DeviceID != w.deviceID {
		slog.DebugContext(ctx, "Ignoring sync request from another device",
			"device_id", msg.DeviceID,
			"reason", msg.Reason)
		return nil
	}

	slog.InfoContext(ctx, "Processing sync request",
		"reason", msg.Reason,
		"device_id", msg.DeviceID)

	select {
	case w.kick <- struct{}{}:
	default:
	}
	return nil
}

// Run consumes sync requests until the context is cancelled. The
// debounce loop runs alongside the consumer and fires AutoSync once
// per quiet period.
func (w *SyncWorker) Run(ctx context.Context) error {
	go w.debounceLoop(ctx)

	err := w.client.ConsumeSyncRequests(ctx, func(msg *amqp.SyncRequestMessage) error {
		return w.HandleSyncRequest(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("consume sync requests: %w", err)
	}
	return nil
}

func (w *SyncWorker) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.kick:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-fire:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			w.engine.AutoSync(ctx)
		}
	}
}
