package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStorePutGet(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "financas.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}

	payload := []byte(`[{"id":"abc"}]`)
	if err := store.Put(ctx, "financas_transactions", payload); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := store.Get(ctx, "financas_transactions")
	if err != nil || !ok {
		t.Fatalf("get after put: ok=%v err=%v", ok, err)
	}
	if string(got) != string(payload) {
		t.Errorf("got %s, want %s", got, payload)
	}

	// Overwrite replaces the whole document.
	if err := store.Put(ctx, "financas_transactions", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _, _ = store.Get(ctx, "financas_transactions")
	if string(got) != `[]` {
		t.Errorf("after overwrite got %s, want []", got)
	}

	if err := store.Delete(ctx, "financas_transactions"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "financas_transactions"); ok {
		t.Error("key still present after delete")
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	original := []byte(`{"theme":"dark"}`)
	if err := store.Put(ctx, "financas_settings", original); err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.Get(ctx, "financas_settings")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	// Mutating the returned slice must not corrupt the stored copy.
	got[0] = 'X'
	again, _, _ := store.Get(ctx, "financas_settings")
	if string(again) != string(original) {
		t.Errorf("stored value mutated through returned slice: %s", again)
	}
}
