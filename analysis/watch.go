package analysis

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchHeuristicTable reloads the keyword table whenever the backing JSON
// file changes, so the fallback vocabulary can be tuned without a restart.
// The parent directory is watched because editors typically replace the
// file rather than write it in place. Blocks until ctx is cancelled.
func (a *Analyzer) WatchHeuristicTable(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(path)
	slog.Info("Watching heuristic table for changes", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			table, err := LoadHeuristicTable(target)
			if err != nil {
				slog.Error("Failed to reload heuristic table", "path", target, "error", err)
				continue
			}
			a.SetHeuristicTable(table)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Heuristic table watcher error", "error", err)
		}
	}
}
