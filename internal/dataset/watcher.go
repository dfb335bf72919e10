package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// ReloadCallback is called after a watcher-driven table swap.
type ReloadCallback func(s *Snapshot)

// Watch observes the dataset file and reloads it into h until ctx is
// cancelled. The parent directory is watched so editors that replace the
// file via rename are handled. Bursts of events are debounced; a reload
// whose checksum matches the current table is skipped, and a failed reload
// keeps the current table.
func Watch(ctx context.Context, h *Holder, path string, logger *slog.Logger, cb ReloadCallback) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", abs))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(reloadDebounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(reloadDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			if s := Reload(h, abs, logger); s != nil && cb != nil {
				cb(s)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: dataset changed", slog.String("op", ev.Op.String()))
			scheduleReload()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// Reload loads path and swaps it into h when its content changed. It
// returns the new snapshot, or nil when nothing was swapped.
func Reload(h *Holder, path string, logger *slog.Logger) *Snapshot {
	t, err := Load(path)
	if err != nil {
		logger.Warn("reload: keeping current dataset", slog.String("error", err.Error()))
		return nil
	}
	if cur := h.Current(); cur != nil && cur.Table.Checksum() == t.Checksum() {
		logger.Debug("reload: dataset unchanged", slog.String("checksum", t.Checksum()))
		return nil
	}
	s := h.Swap(t)
	logger.Info("reload: dataset swapped",
		slog.Int("records", t.Len()),
		slog.String("checksum", t.Checksum()))
	return s
}
