package repo

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the corpus whenever its backing file changes, until the
// context is cancelled. Remote sources cannot be watched.
func (r *SnippetRepo) Watch(ctx context.Context) error {
	if r.IsRemote() {
		return errors.New("cannot watch a remote corpus source")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory rather than the file itself so atomic
	// rename-into-place updates are observed.
	if err := watcher.Add(filepath.Dir(r.source)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		target := filepath.Clean(r.source)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if err := r.Reload(ctx); err != nil {
					r.logger.Warn("corpus reload failed", slog.String("source", r.source), slog.Any("error", err))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("corpus watcher error", slog.Any("error", err))
			}
		}
	}()
	return nil
}
