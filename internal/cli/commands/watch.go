package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// watchDebounce is how long the watcher waits for a burst of writes to
// settle before re-linting.
const watchDebounce = 100 * time.Millisecond

// watchAndLint lints paths once, then again each time a watched .sql file
// changes, until ctx is cancelled.
func watchAndLint(ctx context.Context, cc *CommandContext, l *lintRunner, paths []string, threshold lint.Severity) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, p := range paths {
		if p == stdinPath {
			return fmt.Errorf("cannot watch standard input")
		}
	}
	if err := watchPaths(watcher, paths); err != nil {
		return err
	}

	relint := func(changed []string) {
		if len(changed) == 0 {
			changed = paths
		}
		reports, err := l.run(ctx, changed)
		if err != nil {
			cc.Renderer.Warnf("lint failed: %v", err)
			return
		}
		renderLintReports(cc.Renderer, reports, threshold)
	}

	relint(nil)
	cc.Renderer.Println(cc.Renderer.Styles().Muted.Render("Watching for changes. Press Ctrl+C to stop."))

	var (
		debounce <-chan time.Time
		pending  = make(map[string]bool)
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Only handle write/create events for SQL files
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".sql") {
				continue
			}
			pending[filepath.Clean(event.Name)] = true
			debounce = time.After(watchDebounce)
		case <-debounce:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				if _, err := os.Stat(p); err == nil {
					changed = append(changed, p)
				}
			}
			clear(pending)
			debounce = nil
			cc.Logger.Debug("change detected", "files", len(changed))
			if len(changed) > 0 {
				slices.Sort(changed)
				relint(changed)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Warn("watcher error", "error", err.Error())
		}
	}
}

// watchPaths adds the directories holding paths to the watcher. Directory
// arguments were already expanded, so watching each file's parent covers
// files created later in the same directory.
func watchPaths(watcher *fsnotify.Watcher, paths []string) error {
	dirs := make(map[string]bool)
	for _, p := range paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return nil
}
