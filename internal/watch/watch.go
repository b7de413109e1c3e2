// Package watch reports when data files are changed by something other
// than this process, so in-memory state can be reloaded.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before OnChange fires.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a fixed set of files through their parent directories.
// Editors that save by rename still produce events this way.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	files       map[string]struct{}
	onChange    func(path string)
	log         *slog.Logger
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// Options configures a Watcher.
type Options struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// New creates a watcher for files. onChange runs on the watcher goroutine
// with the path that settled.
func New(files []string, onChange func(path string), opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:     fw,
		files:       make(map[string]struct{}, len(files)),
		onChange:    onChange,
		log:         opts.Logger,
		debounceMap: make(map[string]time.Time),
		debounceDur: opts.Debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	if w.debounceDur <= 0 {
		w.debounceDur = DefaultDebounce
	}
	for _, f := range files {
		w.files[clean(f)] = struct{}{}
	}
	return w, nil
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dirs := make(map[string]struct{})
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			w.log.Warn("cannot create watched directory", slog.String("dir", dir), slog.String("error", err.Error()))
		}
		if err := w.watcher.Add(dir); err != nil {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			w.watcher.Close()
			return err
		}
		w.log.Debug("watching directory", slog.String("dir", dir))
	}

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Error("closing file watcher", slog.String("error", err.Error()))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(max(w.debounceDur/3, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("file watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	path := clean(event.Name)
	if _, ok := w.files[path]; !ok {
		return
	}

	w.mu.Lock()
	w.debounceMap[path] = time.Now()
	w.mu.Unlock()
}

// flush fires onChange for every path quiet for the debounce window.
func (w *Watcher) flush() {
	w.mu.Lock()
	now := time.Now()
	settled := make([]string, 0)
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		w.log.Info("data file changed on disk", slog.String("path", path))
		w.onChange(path)
	}
}

func clean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
