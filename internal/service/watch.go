package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long WatchFile waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// WatchFile calls reload whenever the file at path is written, created or
// replaced, coalescing bursts of events within debounce. The parent directory
// is watched so that atomic renames are seen too. It blocks until ctx is done.
func WatchFile(ctx context.Context, path string, debounce time.Duration, reload func(context.Context) error, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("service.WatchFile: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("service.WatchFile: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("service.WatchFile: %w", err)
	}
	logger.Info("watching vocabulary file", "path", abs, "debounce", debounce)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)

		case <-timer.C:
			if err := reload(ctx); err != nil {
				logger.Error("vocabulary reload failed", "path", abs, "error", err)
			}
		}
	}
}
