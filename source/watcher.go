package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// eventBuffer is the size of the watch event channel.
const eventBuffer = 256

// Op is the kind of corpus file change.
type Op string

// OpCreate, OpModify, and OpDelete enumerate the watch operation types.
const (
	OpCreate Op = "create"
	OpModify Op = "modify"
	OpDelete Op = "delete"
)

// Event is a debounced corpus file change.
type Event struct {
	// Path is the file path relative to the watched directory.
	Path string

	// AbsPath is the absolute file path.
	AbsPath string

	// Op is the kind of change.
	Op Op
}

// WatcherConfig configures corpus directory watching.
type WatcherConfig struct {
	// Debounce is how long to wait for more changes before emitting events.
	Debounce time.Duration

	// Extensions lists file extensions to watch.
	Extensions []string

	// ExcludeDirs lists directory names to skip.
	ExcludeDirs []string
}

// DefaultWatcherConfig returns default watch settings.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		Debounce:    500 * time.Millisecond,
		Extensions:  []string{".txt", ".md"},
		ExcludeDirs: []string{".git", "node_modules", "vendor"},
	}
}

// Watcher watches a corpus directory and emits debounced change events.
// Rewrites that leave a file's content unchanged are suppressed by
// content hash.
type Watcher struct {
	config     WatcherConfig
	dir        string
	watcher    *fsnotify.Watcher
	logger     *slog.Logger
	extensions map[string]bool
	excludes   map[string]bool

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.Mutex
	hashes map[string]string

	events  chan Event
	dropped atomic.Int64
}

// NewWatcher creates a watcher for the given corpus directory.
func NewWatcher(config WatcherConfig, dir string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultWatcherConfig()
	if config.Debounce <= 0 {
		config.Debounce = defaults.Debounce
	}
	if len(config.Extensions) == 0 {
		config.Extensions = defaults.Extensions
	}
	if len(config.ExcludeDirs) == 0 {
		config.ExcludeDirs = defaults.ExcludeDirs
	}

	extensions := make(map[string]bool)
	for _, ext := range config.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}

	excludes := make(map[string]bool)
	for _, d := range config.ExcludeDirs {
		excludes[d] = true
	}

	return &Watcher{
		config:     config,
		dir:        dir,
		watcher:    fsw,
		logger:     logger,
		extensions: extensions,
		excludes:   excludes,
		pending:    make(map[string]fsnotify.Op),
		hashes:     make(map[string]string),
		events:     make(chan Event, eventBuffer),
	}, nil
}

// Events returns the channel of watch events. The channel is closed when
// the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins watching. Existing files are hashed so that the first
// change to a pre-existing file reports as a modify, not a create.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	if err := w.addWatches(w.dir); err != nil {
		return err
	}

	go w.loop(ctx)

	w.logger.Info("corpus watcher started",
		"dir", w.dir,
		"debounce", w.config.Debounce,
		"extensions", w.config.Extensions)
	return nil
}

// Stop stops the watcher. The events channel is closed by the event loop
// when it exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// Dropped returns the number of events dropped due to a full channel.
func (w *Watcher) Dropped() int64 {
	return w.dropped.Load()
}

// addWatches walks the tree adding directory watches and seeding content
// hashes for already-present corpus files.
func (w *Watcher) addWatches(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			if w.watched(path) {
				if content, err := os.ReadFile(path); err == nil {
					rel, _ := filepath.Rel(w.dir, path)
					w.setHash(rel, contentHash(content))
				}
			}
			return nil
		}

		base := filepath.Base(path)
		if w.excludes[base] || (strings.HasPrefix(base, ".") && base != ".") {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("watch directory failed", "path", path, "error", err)
		}
		return nil
	})
}

// loop handles fsnotify events with debouncing.
func (w *Watcher) loop(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.record(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// record accumulates a raw fsnotify event into the pending set.
func (w *Watcher) record(ev fsnotify.Event) {
	path := ev.Name

	if !w.watched(path) {
		// Newly created subdirectories need their own watch.
		if ev.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.watchNewDir(path)
			}
		}
		return
	}

	rel, _ := filepath.Rel(w.dir, path)
	for d := range w.excludes {
		if strings.Contains(rel, d+string(filepath.Separator)) {
			return
		}
	}

	w.pendingMu.Lock()
	w.pending[path] |= ev.Op
	w.pendingMu.Unlock()
}

// watched reports whether the path has a watched file extension.
func (w *Watcher) watched(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) watchNewDir(path string) {
	base := filepath.Base(path)
	if w.excludes[base] || strings.HasPrefix(base, ".") {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("watch new directory failed", "path", path, "error", err)
	}
}

// flush turns accumulated changes into events, suppressing rewrites whose
// content hash is unchanged.
func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range batch {
		if ctx.Err() != nil {
			return
		}

		rel, _ := filepath.Rel(w.dir, path)
		ev := Event{Path: rel, AbsPath: path}

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			ev.Op = OpDelete
			w.deleteHash(rel)
			w.send(ev)
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			ev.Op = OpDelete
			w.deleteHash(rel)
			w.send(ev)
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			w.logger.Warn("read changed file failed", "path", rel, "error", err)
			continue
		}

		newHash := contentHash(content)
		oldHash, known := w.getHash(rel)
		if known && oldHash == newHash {
			continue
		}
		w.setHash(rel, newHash)

		if op.Has(fsnotify.Create) || !known {
			ev.Op = OpCreate
		} else {
			ev.Op = OpModify
		}
		w.send(ev)
	}
}

func (w *Watcher) send(ev Event) {
	select {
	case w.events <- ev:
	default:
		dropped := w.dropped.Add(1)
		w.logger.Warn("event channel full, dropping event",
			"path", ev.Path,
			"total_dropped", dropped)
	}
}

func (w *Watcher) setHash(rel, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[rel] = hash
}

func (w *Watcher) getHash(rel string) (string, bool) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	h, ok := w.hashes[rel]
	return h, ok
}

func (w *Watcher) deleteHash(rel string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	delete(w.hashes, rel)
}

// contentHash returns the hex sha256 of file content.
func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
