// Package watcher keeps the index in step with the documents directory.
// New files are ingested on their own; edits to files already indexed
// trigger a rebuild, since the index only appends.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultDebounce batches the burst of write events editors emit on save.
const DefaultDebounce = 500 * time.Millisecond

// Result reports the outcome of one automatic ingestion or rebuild.
type Result struct {
	// Path is the ingested file, or the documents directory for a rebuild.
	Path string

	// Chunks is the number of chunks added, or the index size after a rebuild.
	Chunks int

	// Rebuilt is true when the whole directory was reprocessed.
	Rebuilt bool

	Err error
}

// rebuildKey marks the pending rebuild in the timer map. No file path is empty.
const rebuildKey = ""

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a path must be quiet before it is processed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithFilter restricts ingestion to paths the filter accepts,
// typically the extractor registry's Supports.
func WithFilter(fn func(path string) bool) Option {
	return func(w *Watcher) {
		w.filter = fn
	}
}

// WithNotify registers a callback invoked after every ingestion or rebuild attempt.
func WithNotify(fn func(Result)) Option {
	return func(w *Watcher) {
		w.notify = fn
	}
}

// Watcher feeds file system changes into an IngestService.
type Watcher struct {
	ingest   driving.IngestService
	dir      string
	debounce time.Duration
	filter   func(path string) bool
	notify   func(Result)

	mu      sync.Mutex
	pending map[string]*time.Timer
	known   map[string]bool
	wg      sync.WaitGroup

	// runMu keeps ingestions and rebuilds from overlapping.
	runMu sync.Mutex
}

// New creates a watcher over dir.
func New(ingest driving.IngestService, dir string, opts ...Option) *Watcher {
	w := &Watcher{
		ingest:   ingest,
		dir:      dir,
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
		known:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. Files already in the directory count
// as indexed. Pending work is finished before it returns.
func (w *Watcher) Run(ctx context.Context) error {
	if w.ingest == nil {
		return fmt.Errorf("watcher: ingest service not configured")
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("creating documents directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.dir); err != nil {
		return err
	}
	logger.Info("watching %s", w.dir)

	defer w.drain()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if isHidden(event.Name) {
				continue
			}
			if isNewDir(event) {
				if err := w.addTree(fsw, event.Name); err != nil {
					logger.Warn("failed to watch %s: %v", event.Name, err)
				}
				continue
			}
			if path, ok := w.handleFsEvent(event); ok {
				w.schedule(ctx, path)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// handleFsEvent returns the changed path for create and write events on
// visible, supported regular files.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	if w.filter != nil && !w.filter(event.Name) {
		logger.Debug("watcher: ignoring unsupported file %s", event.Name)
		return "", false
	}
	return event.Name, true
}

// schedule (re)starts the debounce timer for path. A path that is already
// indexed, or any change while a rebuild is pending, schedules a rebuild.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.known[path] || w.pending[rebuildKey] != nil {
		w.scheduleRebuildLocked(ctx)
		return
	}
	w.startTimerLocked(path, func() { w.ingestFile(ctx, path) })
}

// scheduleRebuildLocked folds pending ingestions into one rebuild.
func (w *Watcher) scheduleRebuildLocked(ctx context.Context) {
	for path, t := range w.pending {
		if path == rebuildKey {
			continue
		}
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
		w.known[path] = true
	}
	w.startTimerLocked(rebuildKey, func() { w.rebuild(ctx) })
}

// startTimerLocked replaces the timer for key. w.mu must be held. A file
// counts as indexed from the moment its ingestion fires, so later edits
// rebuild instead of appending a second copy.
func (w *Watcher) startTimerLocked(key string, fn func()) {
	if t, ok := w.pending[key]; ok && t.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.pending[key] = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.mu.Lock()
		delete(w.pending, key)
		if key != rebuildKey {
			w.known[key] = true
		}
		w.mu.Unlock()
		fn()
	})
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	if ctx.Err() != nil {
		return
	}

	res, err := w.ingest.Ingest(ctx, path)
	result := Result{Path: path, Err: err}
	if err != nil {
		logger.Warn("auto-ingest %s failed: %v", path, err)
	} else {
		result.Chunks = res.Chunks
		logger.Info("auto-ingested %s (%d chunks)", path, res.Chunks)
	}
	w.report(result)
}

func (w *Watcher) rebuild(ctx context.Context) {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	if ctx.Err() != nil {
		return
	}

	res, err := w.ingest.Rebuild(ctx)
	result := Result{Path: w.dir, Rebuilt: true, Err: err}
	if err != nil {
		logger.Warn("auto-rebuild of %s failed: %v", w.dir, err)
	} else {
		result.Chunks = res.Chunks
		logger.Info("rebuilt index after changes in %s (%d chunks)", w.dir, res.Chunks)
	}
	w.report(result)
}

func (w *Watcher) report(r Result) {
	if w.notify != nil {
		w.notify(r)
	}
}

// drain cancels timers that have not fired and waits for running work.
func (w *Watcher) drain() {
	w.mu.Lock()
	for path, t := range w.pending {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

// addTree watches root and its visible subdirectories, and records the
// supported files already present as indexed.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if d.Type().IsRegular() && !isHidden(path) && (w.filter == nil || w.filter(path)) {
				w.mu.Lock()
				w.known[path] = true
				w.mu.Unlock()
			}
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

func isNewDir(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) {
		return false
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}
