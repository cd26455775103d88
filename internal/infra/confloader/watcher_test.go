package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_SeesRenameReplace(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "transaction.json")
	if err := os.WriteFile(target, []byte(`{"active":false}`), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	changed := make(chan string, 8)
	w.OnChange(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	if err := w.Watch(target); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	w.StartAsync()

	// Replace the file the way the marker store does: temp + rename.
	temp := target + ".tmp"
	if err := os.WriteFile(temp, []byte(`{"active":true}`), 0o644); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	if err := os.Rename(temp, target); err != nil {
		t.Fatalf("rename: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatalf("no change event after rename replace")
	}
}

func TestWatcher_StopIsClean(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.StartAsync()
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
