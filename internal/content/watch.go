package content

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/calder/folio/internal/checksum"
)

// ReloadCallback is called after a watcher-driven seed reload.
type ReloadCallback func()

// Watch observes the seed snapshot file and re-imports it whenever its
// content changes, until ctx is cancelled. Events are debounced because
// editors typically fire several write/rename events per save, and the file
// checksum is compared so touch-without-change is a no-op.
//
// The parent directory is watched rather than the file itself: atomic-save
// editors replace the file, which would silently detach a file-level watch.
func Watch(ctx context.Context, store *Store, seedPath string, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(seedPath)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	var lastSum string
	if data, readErr := os.ReadFile(abs); readErr == nil {
		lastSum = checksum.Sum(data)
	}

	logger.Info("seed watcher: started", slog.String("path", abs))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("seed watcher: stopped")
			return nil

		case <-reloadCh:
			data, readErr := os.ReadFile(abs)
			if readErr != nil {
				logger.Warn("seed watcher: read failed", slog.String("error", readErr.Error()))
				continue
			}
			sum := checksum.Sum(data)
			if sum == lastSum {
				continue
			}
			doc, decErr := Decode(data)
			if decErr != nil {
				logger.Warn("seed watcher: ignoring malformed seed", slog.String("error", decErr.Error()))
				continue
			}
			lastSum = sum
			store.ReplaceAll(doc)
			logger.Info("seed watcher: content reloaded", slog.String("path", abs))
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("seed watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// LoadSeed reads and decodes a seed snapshot file.
func LoadSeed(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
