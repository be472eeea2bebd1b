package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	pgerrors "pgtpch/internal/errors"
	"pgtpch/internal/telemetry"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for writes to settle before
// regenerating the report.
const DefaultDebounce = 500 * time.Millisecond

// Watch runs the aggregation once, then again whenever a sample file under
// resultsDir is created or written, until ctx is cancelled. onRun, when
// set, is called after every pass with its result.
func (a *Aggregator) Watch(ctx context.Context, resultsDir, output string, debounce time.Duration, onRun func(error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if onRun == nil {
		onRun = func(error) {}
	}

	err := a.Run(resultsDir, output)
	var dirErr *pgerrors.ResultsDirError
	if errors.As(err, &dirErr) {
		return err
	}
	onRun(err)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursiveWatch(watcher, resultsDir); err != nil {
		return err
	}
	telemetry.LogInfof("Watching %s for sample changes", resultsDir)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := addRecursiveWatch(watcher, event.Name); err != nil {
					slog.Warn("Failed to watch new directory", "dir", event.Name, "error", err)
				}
			} else if filepath.Base(event.Name) != a.samplesFile {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			slog.Info("Samples changed, regenerating report")
			onRun(a.Run(resultsDir, output))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			telemetry.LogError("Watcher error", err)
		}
	}
}

func addRecursiveWatch(watcher *fsnotify.Watcher, path string) error {
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
