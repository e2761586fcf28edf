package worker

import (
	"context"
	"testing"
	"time"

	"financas/internal/amqp"
	"financas/internal/ledger"
	"financas/internal/storage"
	"financas/internal/sync"
)

func newTestWorker(t *testing.T) *SyncWorker {
	t.Helper()
	kv := storage.NewMemoryStore()
	engine := sync.NewEngine(ledger.NewStore(kv), kv, "http://sync.invalid")
	return NewSyncWorker(engine, nil, 10*time.Millisecond, "dev_local")
}

func TestHandleSyncRequestSchedulesOwnChanges(t *testing.T) {
	w := newTestWorker(t)

	msg := amqp.NewSyncRequestMessage("transaction_added", "dev_local")
	if err := w.HandleSyncRequest(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncRequest() error = %v", err)
	}

	select {
	case <-w.kick:
	default:
		t.Fatal("expected a pending sync after own change")
	}
}

func TestHandleSyncRequestIgnoresOtherDevices(t *testing.T) {
	w := newTestWorker(t)

	msg := amqp.NewSyncRequestMessage("transaction_added", "dev_other")
	if err := w.HandleSyncRequest(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncRequest() error = %v", err)
	}

	select {
	case <-w.kick:
		t.Fatal("changes from other devices must not schedule a push")
	default:
	}
}

func TestHandleSyncRequestCoalescesBursts(t *testing.T) {
	w := newTestWorker(t)

	for i := 0; i < 5; i++ {
		msg := amqp.NewSyncRequestMessage("transaction_added", "dev_local")
		if err := w.HandleSyncRequest(context.Background(), msg); err != nil {
			t.Fatalf("HandleSyncRequest() error = %v", err)
		}
	}

	<-w.kick
	select {
	case <-w.kick:
		t.Fatal("a burst of changes must collapse into one pending sync")
	default:
	}
}
