package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/hotkey/internal/shortcut"
)

func writeShortcuts(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestNewLoadsImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortcuts.toml")
	writeShortcuts(t, path, "[shortcuts.save]\nkeys = \"ctrl+s\"\n")

	reg := shortcut.NewRegistry(nil)
	w, err := New(reg, path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if !reg.Has("save") {
		t.Error("initial load did not register save")
	}
}

func TestMissingFileIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	reg := shortcut.NewRegistry(nil)
	w, err := New(reg, path)
	if err != nil {
		t.Fatalf("New failed for missing file: %v", err)
	}
	defer w.Close()

	if reg.Len() != 0 {
		t.Errorf("registry has %d shortcuts, want 0", reg.Len())
	}

	// Creating the file later triggers a load.
	writeShortcuts(t, path, "[shortcuts.quit]\nkeys = \"ctrl+q\"\n")
	if !waitFor(t, 2*time.Second, func() bool { return reg.Has("quit") }) {
		t.Error("created file was not loaded")
	}
}

func TestReloadOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortcuts.toml")
	writeShortcuts(t, path, "[shortcuts.save]\nkeys = \"ctrl+s\"\npriority = 1\n")

	reg := shortcut.NewRegistry(nil)
	reloaded := make(chan struct{}, 8)
	w, err := New(reg, path, WithDebounce(20*time.Millisecond), OnReload(func() {
		reloaded <- struct{}{}
	}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	writeShortcuts(t, path, "[shortcuts.save]\nkeys = \"ctrl+s\"\npriority = 5\n")

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after write")
	}

	def, ok := reg.Get("save")
	if !ok {
		t.Fatal("save missing after reload")
	}
	if def.Priority != 5 {
		t.Errorf("priority = %d after reload, want 5", def.Priority)
	}
}

func TestMalformedReloadReportsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortcuts.toml")
	writeShortcuts(t, path, "[shortcuts.save]\nkeys = \"ctrl+s\"\n")

	reg := shortcut.NewRegistry(nil)
	errs := make(chan error, 8)
	w, err := New(reg, path, WithDebounce(20*time.Millisecond), OnError(func(e error) {
		errs <- e
	}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	writeShortcuts(t, path, "[broken\n")

	select {
	case <-errs:
	case <-time.After(2 * time.Second):
		t.Fatal("no error reported for malformed reload")
	}

	// Existing definitions survive a failed reload.
	if !reg.Has("save") {
		t.Error("failed reload dropped existing shortcuts")
	}
}

func TestManualReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortcuts.toml")
	writeShortcuts(t, path, "[shortcuts.save]\nkeys = \"ctrl+s\"\n")

	reg := shortcut.NewRegistry(nil)
	w, err := New(reg, path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	writeShortcuts(t, path, "[shortcuts.save]\nkeys = \"ctrl+s\"\n\n[shortcuts.quit]\nkeys = \"ctrl+q\"\n")
	if err := w.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if !reg.Has("quit") {
		t.Error("manual reload did not pick up new shortcut")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortcuts.toml")
	writeShortcuts(t, path, "[shortcuts.save]\nkeys = \"ctrl+s\"\n")

	w, err := New(shortcut.NewRegistry(nil), path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
