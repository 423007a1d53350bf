package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// reloadOps are the events on the config file that trigger a reload. Saving
// through a temp file and renaming it over path shows up as Create (or Rename
// on some platforms) for path rather than Write.
const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// Watch reloads the config at path whenever it changes and passes the result
// to onChange, until ctx is cancelled.
//
// The parent directory is watched rather than the file itself, so the watch
// survives editors that replace the file instead of rewriting it in place.
// A reload that fails to parse or validate is logged and skipped; the caller
// keeps whatever it applied last.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config watch: resolve %q: %w", path, err)
	}
	target = filepath.Clean(target)

	// Fail fast on a missing file: a directory watch alone would not notice.
	if _, err := Load(target); err != nil {
		return fmt.Errorf("config watch: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(target)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("config watch: add %q: %w", dir, err)
	}
	slog.Info("config: watching for changes", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&reloadOps == 0 {
				continue
			}
			reload(target, onChange)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

func reload(path string, onChange func(*Config)) {
	cfg, err := Load(path)
	if err != nil {
		// Rename-away leaves no file until the replacement lands; the
		// following Create triggers the real reload.
		slog.Warn("config: reload skipped", "path", path, "err", err)
		return
	}
	slog.Info("config: reloaded", "path", path, "log_level", cfg.Server.LogLevel)
	onChange(cfg)
}
