// Package watch observes the site manifest for regeneration and triggers
// a reload when the generator rewrites it.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc is called after the manifest changes on disk. The watcher
// debounces bursts of events, so one generator run yields one call.
type ReloadFunc func()

// Watch starts an fsnotify watcher on the manifest file and processes
// change events until ctx is cancelled.
//
// The watch is placed on the manifest's parent directory, not the file
// itself: generators typically write a temp file and rename it over the
// manifest, which drops a file-level watch. Events for other files in
// the directory are ignored.
func Watch(ctx context.Context, manifestPath string, logger *slog.Logger, reload ReloadFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(manifestPath)
	name := filepath.Base(manifestPath)
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("manifest", manifestPath))

	// debounceTimer coalesces the write+rename burst of a regeneration.
	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounceTimer == nil {
			debounceTimer = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounceTimer.C
		} else {
			debounceTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			logger.Debug("watcher: manifest changed", slog.String("manifest", manifestPath))
			if reload != nil {
				reload()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
