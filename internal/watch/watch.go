// Package watch is an optional adapter over Scheduler.RunToFixpoint,
// ported from internal/watch.go engine-level file watcher.
// Where it re-lints a single changed file, this re-runs a full
// fixpoint sweep across every tracked file whenever one of them changes
// on disk outside the minimizer's own writes - useful when a human is
// hand-editing alongside a running reduction.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/reduce/internal/scheduler"
)

// settleDelay absorbs a burst of writes (an editor's save-and-format
// cycle) into one re-run, mirroring watchLoop debounce.
const settleDelay = 100 * time.Millisecond

// Run blocks, re-triggering sched.RunToFixpoint(ctx, paths) whenever one
// of root's .go files changes, until ctx is cancelled. Its own writes
// inside a sweep also fire fsnotify events; those are indistinguishable
// from external edits and simply trigger a sweep that accepts nothing,
// which is harmless but is why watch mode is opt-in rather than default.
func Run(ctx context.Context, logger *zap.Logger, sched *scheduler.Scheduler, root string, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addTree(watcher, root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			time.Sleep(settleDelay)
		drain:
			for {
				select {
				case _, ok := <-watcher.Events:
					if !ok {
						return nil
					}
				default:
					break drain
				}
			}
			if _, err := sched.RunToFixpoint(ctx, paths); err != nil {
				logger.Warn("re-run after file change failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func relevant(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write && strings.HasSuffix(event.Name, ".go")
}
