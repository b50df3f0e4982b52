package app

import (
	"context"
	"strings"
	"time"

	"go.trai.ch/specscope/internal/adapters/report"
	"go.trai.ch/specscope/internal/adapters/watcher"
	"go.trai.ch/specscope/internal/engine/cache"
	"go.trai.ch/zerr"
)

const defaultDebounce = 200 * time.Millisecond

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	SpecPath     string
	FindingsPath string
	ConfigPath   string
	Format       string
	MetricsOut   string
	// Debounce is the quiet period after the last change before a re-run.
	Debounce time.Duration
}

// Watch analyzes once and then again whenever the spec or the findings change,
// until ctx is cancelled. Failed runs are logged and do not stop watching.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	p, err := a.newPipeline(ctx, opts.ConfigPath, true)
	if err != nil {
		return err
	}
	defer p.close(ctx)

	w, err := a.newWatcher(a.logger)
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.Start(ctx, opts.SpecPath, opts.FindingsPath); err != nil {
		return err
	}

	go cache.RunJanitor(ctx, p.cfg.Cache.SweepInterval, p.sweepers()...)

	window := opts.Debounce
	if window <= 0 {
		window = defaultDebounce
	}

	// One pending trigger is enough: a run always reads the latest files.
	trigger := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		select {
		case trigger <- paths:
		default:
		}
	})

	go func() {
		for event := range w.Events() {
			a.logger.Debug("file changed", "path", event.Path)
			debouncer.Add(event.Path)
		}
	}()

	a.logger.Info("watching for changes", "spec", opts.SpecPath, "findings", opts.FindingsPath)
	a.rerun(ctx, p, opts, format)

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-trigger:
			a.logger.Info("change detected", "files", strings.Join(paths, ", "))
			a.rerun(ctx, p, opts, format)
		}
	}
}

func (a *App) rerun(ctx context.Context, p *pipeline, opts WatchOptions, format report.Format) {
	err := a.analyzeOnce(ctx, p, opts.SpecPath, opts.FindingsPath, format)
	if err == nil && opts.MetricsOut != "" {
		err = p.recorder.WriteTextfile(opts.MetricsOut)
	}
	if err != nil && ctx.Err() == nil {
		a.logger.Error(err)
	}
}
