package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLocalStorage() failed: %v", err)
	}
	return store, dir
}

func TestNewLocalStorage(t *testing.T) {
	t.Run("creates a missing root directory", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nested", "payloads")
		if _, err := NewLocalStorage(root, zerolog.Nop()); err != nil {
			t.Fatalf("NewLocalStorage() failed: %v", err)
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			t.Errorf("root directory was not created: %v", err)
		}
	})

	t.Run("rejects an empty path", func(t *testing.T) {
		if _, err := NewLocalStorage("  ", zerolog.Nop()); err == nil {
			t.Error("NewLocalStorage() accepted an empty path")
		}
	})
}

func TestLocalStorage_Save(t *testing.T) {
	store, dir := newTestStorage(t)
	payload := []byte("job_id: job_abc\ntimestamp: 2026-08-31T00:00:00Z\n\npayload body\n")

	result, err := store.Save(context.Background(), "job_abc", payload)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if result.Filename != "job_abc.txt" {
		t.Errorf("filename = %q, want job_abc.txt", result.Filename)
	}
	if result.SizeBytes != int64(len(payload)) {
		t.Errorf("size = %d, want %d", result.SizeBytes, len(payload))
	}

	written, err := os.ReadFile(filepath.Join(dir, result.Filename))
	if err != nil {
		t.Fatalf("reading stored payload failed: %v", err)
	}
	if string(written) != string(payload) {
		t.Error("stored payload does not match input")
	}

	if _, err := os.Stat(filepath.Join(dir, result.Filename+".tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind after promotion")
	}
}

func TestLocalStorage_Save_UnwritableRoot(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	store, dir := newTestStorage(t)
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatalf("Chmod() failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	if _, err := store.Save(context.Background(), "job_abc", []byte("payload")); err == nil {
		t.Fatal("Save() into an unwritable root succeeded")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("partial artifacts left behind: %v", entries)
	}
}

func TestLocalStorage_StatAndRemove(t *testing.T) {
	store, _ := newTestStorage(t)

	result, err := store.Save(context.Background(), "job_abc", []byte("payload"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	size, modTime, err := store.Stat(context.Background(), result.Filename)
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if size != result.SizeBytes {
		t.Errorf("Stat() size = %d, want %d", size, result.SizeBytes)
	}
	if modTime.IsZero() {
		t.Error("Stat() returned a zero modification time")
	}

	if err := store.Remove(context.Background(), result.Filename); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if _, _, err := store.Stat(context.Background(), result.Filename); !os.IsNotExist(err) {
		t.Errorf("Stat() after Remove() = %v, want not-exist", err)
	}
}

func TestLocalStorage_PathStaysUnderRoot(t *testing.T) {
	store, dir := newTestStorage(t)

	got := store.Path("../../etc/passwd")
	if filepath.Dir(got) != dir {
		t.Errorf("Path() escaped the root: %q", got)
	}
}

func TestLocalStorage_Health(t *testing.T) {
	store, _ := newTestStorage(t)
	if err := store.Health(context.Background()); err != nil {
		t.Errorf("Health() failed: %v", err)
	}
}
