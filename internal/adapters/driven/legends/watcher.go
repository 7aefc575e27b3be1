package legends

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/logger"
)

// DefaultDebounce groups bursts of file events into one reload.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives the reloaded legends, or the error that prevented it.
type ReloadFunc func(dict domain.LegendDict, err error)

// Watcher reloads a legend directory whenever one of its CSV files changes.
type Watcher struct {
	loader   *Loader
	dir      string
	debounce time.Duration
}

// NewWatcher creates a watcher on dir.
func NewWatcher(loader *Loader, dir string) *Watcher {
	return &Watcher{loader: loader, dir: dir, debounce: DefaultDebounce}
}

// Run calls onReload once with the current legends, then after each change,
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, onReload ReloadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	var mu sync.Mutex
	reload := func() {
		if ctx.Err() != nil {
			return
		}
		dict, err := w.loader.LoadDir(ctx, w.dir)
		mu.Lock()
		defer mu.Unlock()
		onReload(dict, err)
	}
	reload()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".csv") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("legend change: %s %s", event.Op, filepath.Base(event.Name))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("legend watcher: %v", err)
		}
	}
}
