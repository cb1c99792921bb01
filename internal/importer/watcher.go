package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileHandler is called once per new, settled file in a watched directory.
type FileHandler func(ctx context.Context, path string) error

// Watcher imports files dropped into a directory.
type Watcher struct {
	handle FileHandler
	logger *slog.Logger
	dir    string
	settle time.Duration
}

// NewWatcher watches dir and calls handle for every supported file that has
// not changed for settle.
func NewWatcher(dir string, settle time.Duration, handle FileHandler, logger *slog.Logger) *Watcher {
	if settle <= 0 {
		settle = 300 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{dir: dir, settle: settle, handle: handle, logger: logger}
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("Watching import directory", "dir", w.dir)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if _, err := DetectFormat(ev.Name); err != nil {
				continue
			}
			pending[ev.Name] = time.Now()

		case <-ticker.C:
			now := time.Now()
			for name, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, name)
				if err := w.handle(ctx, name); err != nil {
					w.logger.Error("Failed to import dropped file",
						"file", filepath.Base(name),
						"error", err)
				}
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}
