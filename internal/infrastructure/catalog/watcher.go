package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog whenever the file at path is written or
// replaced. It blocks until ctx is done. The parent directory is watched so
// that editors which rename over the file are handled.
func (c *Catalog) Watch(ctx context.Context, path string, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := c.Reload(target); err != nil {
				logger.Warn("catalog reload failed, keeping previous catalog",
					slog.String("path", target),
					slog.String("error", err.Error()),
				)
				continue
			}
			logger.Info("catalog reloaded",
				slog.String("path", target),
				slog.Int("mines", c.Len()),
			)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("catalog watcher error", slog.String("error", err.Error()))
		}
	}
}
