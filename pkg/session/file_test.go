package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	defer store.Close()

	sess := New("Flow", "<mxfile/>", time.Hour)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Session lands on disk as JSON.
	if _, err := os.Stat(filepath.Join(store.Path(), sess.ID+".json")); err != nil {
		t.Errorf("session file missing: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil || got.XML != "<mxfile/>" {
		t.Errorf("Get returned %+v", got)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	got, _ = store.Get(ctx, sess.ID)
	if got != nil {
		t.Error("Get after Delete should return nil")
	}

	// Deleting a missing session is not an error.
	if err := store.Delete(ctx, "nope"); err != nil {
		t.Errorf("Delete of missing session: %v", err)
	}
}

func TestFileStoreMissingSession(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	got, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != nil {
		t.Error("missing session should return nil, nil")
	}
}

func TestFileStoreExpiration(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	sess := New("old", "", -time.Minute)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != nil {
		t.Error("expired session should read as missing")
	}
	// Expired file was removed on read.
	if _, err := os.Stat(filepath.Join(store.Path(), sess.ID+".json")); !os.IsNotExist(err) {
		t.Error("expired session file should be removed")
	}
}

func TestFileStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	expired := New("old", "", -time.Minute)
	live := New("new", "", time.Hour)
	store.Set(ctx, expired)
	store.Set(ctx, live)

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup error: %v", err)
	}

	entries, err := os.ReadDir(store.Path())
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("files after cleanup = %d, want 1", len(entries))
	}
}
