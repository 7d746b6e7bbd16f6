package batch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 200 * time.Millisecond

// Handler receives the outcome of every run the watcher triggers. err is
// set when the file could not be loaded or the run was cancelled.
type Handler func(run *Run, err error)

// Watcher reruns a job file each time it is written. Bursts of events
// within the debounce window collapse into one run.
type Watcher struct {
	path     string
	runner   *Runner
	handler  Handler
	debounce time.Duration
	logger   *slog.Logger
}

func NewWatcher(path string, runner *Runner, handler Handler) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		runner:   runner,
		handler:  handler,
		debounce: DefaultDebounce,
		logger:   runner.logger,
	}
}

func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Watch runs the file once, then again after each change, until ctx is
// done. The parent directory is watched so editors that replace the file
// by rename are still seen.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.logger.Info("watching", "file", w.path)

	w.runOnce(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("change", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.runOnce(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	f, err := Load(w.path)
	if err != nil {
		w.logger.Warn("load failed", "file", w.path, "err", err)
		w.handler(nil, err)
		return
	}
	run, err := w.runner.Run(ctx, f)
	w.handler(run, err)
}
