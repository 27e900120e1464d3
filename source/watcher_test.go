package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startTestWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()

	cfg := WatcherConfig{
		Debounce:   50 * time.Millisecond,
		Extensions: []string{".txt"},
	}
	w, err := NewWatcher(cfg, dir, nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	t.Cleanup(func() { w.Stop() })

	// Give the watcher time to set up.
	time.Sleep(100 * time.Millisecond)
	return w
}

func waitForEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for watch event")
		return Event{}
	}
}

func TestNewWatcher_Defaults(t *testing.T) {
	w, err := NewWatcher(WatcherConfig{}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.Stop()

	if !w.extensions[".txt"] || !w.extensions[".md"] {
		t.Error("expected default extensions .txt and .md")
	}
	if !w.excludes[".git"] {
		t.Error("expected .git excluded by default")
	}
	if w.config.Debounce != 500*time.Millisecond {
		t.Errorf("unexpected default debounce: %v", w.config.Debounce)
	}
}

func TestWatcher_FileCreation(t *testing.T) {
	tmpDir := t.TempDir()
	w := startTestWatcher(t, tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "new.txt"), []byte("Fresh corpus text.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitForEvent(t, w)
	if ev.Op != OpCreate {
		t.Errorf("expected create, got %s", ev.Op)
	}
	if ev.Path != "new.txt" {
		t.Errorf("expected path new.txt, got %s", ev.Path)
	}
}

func TestWatcher_FileModification(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "doc.txt")
	if err := os.WriteFile(file, []byte("Original text.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := startTestWatcher(t, tmpDir)

	if err := os.WriteFile(file, []byte("Changed text.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitForEvent(t, w)
	if ev.Op != OpModify {
		t.Errorf("expected modify for a pre-existing file, got %s", ev.Op)
	}
}

func TestWatcher_UnchangedRewriteSuppressed(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "doc.txt")
	content := []byte("Stable text.\n")
	if err := os.WriteFile(file, content, 0o644); err != nil {
		t.Fatal(err)
	}

	w := startTestWatcher(t, tmpDir)

	// Rewrite with identical content.
	if err := os.WriteFile(file, content, 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("expected no event for unchanged content, got %s %s", ev.Op, ev.Path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_FileDeletion(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "doc.txt")
	if err := os.WriteFile(file, []byte("Doomed text.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := startTestWatcher(t, tmpDir)

	if err := os.Remove(file); err != nil {
		t.Fatal(err)
	}

	ev := waitForEvent(t, w)
	if ev.Op != OpDelete {
		t.Errorf("expected delete, got %s", ev.Op)
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	w := startTestWatcher(t, tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "image.png"), []byte{0x89}, 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("expected no event for unwatched extension, got %s %s", ev.Op, ev.Path)
	case <-time.After(300 * time.Millisecond):
	}
}
