// Package app implements the application layer for specscope.
package app

import (
	"context"
	"io"
	"os"
	"time"

	"go.trai.ch/specscope/internal/adapters/reasoning"
	"go.trai.ch/specscope/internal/adapters/report"
	"go.trai.ch/specscope/internal/adapters/watcher"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/core/ports"
	"go.trai.ch/specscope/internal/engine/enricher"
	"go.trai.ch/specscope/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// EngineFactory creates the reasoning engine client for a run.
type EngineFactory func(cfg domain.EngineConfig, logger ports.Logger) (ports.ReasoningEngine, error)

// WatcherFactory creates the file watcher used by watch mode.
type WatcherFactory func(logger ports.Logger) (ports.Watcher, error)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	specLoader   ports.SpecLoader
	findings     ports.FindingSource
	logger       ports.Logger
	stdout       io.Writer
	newEngine    EngineFactory
	newWatcher   WatcherFactory
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	specLoader ports.SpecLoader,
	findings ports.FindingSource,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		specLoader:   specLoader,
		findings:     findings,
		logger:       log,
		stdout:       os.Stdout,
		newEngine: func(cfg domain.EngineConfig, logger ports.Logger) (ports.ReasoningEngine, error) {
			return reasoning.NewClient(cfg, logger)
		},
		newWatcher: func(logger ports.Logger) (ports.Watcher, error) {
			return watcher.NewWatcher(logger)
		},
	}
}

// WithOutput redirects reports, which go to stdout by default.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithEngineFactory replaces the HTTP reasoning engine client.
// This is primarily used for testing.
func (a *App) WithEngineFactory(f EngineFactory) *App {
	a.newEngine = f
	return a
}

// WithWatcherFactory replaces the fsnotify watcher.
// This is primarily used for testing.
func (a *App) WithWatcherFactory(f WatcherFactory) *App {
	a.newWatcher = f
	return a
}

// logModes is implemented by loggers that can switch encoding and verbosity.
type logModes interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// ConfigureLogging switches the logger to JSON records and/or debug level.
func (a *App) ConfigureLogging(json, verbose bool) {
	if l, ok := a.logger.(logModes); ok {
		l.SetJSON(json)
		l.SetVerbose(verbose)
	}
}

// GraphOptions configuration for the Graph method.
type GraphOptions struct {
	SpecPath   string
	ConfigPath string
	Format     string
}

// Graph builds and prints the dependency graph of a spec.
func (a *App) Graph(ctx context.Context, opts GraphOptions) error {
	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	p, err := a.newPipeline(ctx, opts.ConfigPath, false)
	if err != nil {
		return err
	}
	defer p.close(ctx)

	spec, err := p.loadSpec(ctx, opts.SpecPath)
	if err != nil {
		return err
	}
	graph, _, err := p.holder.Rebuild(spec)
	if err != nil {
		return zerr.Wrap(err, "failed to build dependency graph")
	}

	return report.NewRenderer(a.stdout, format).Graph(graph)
}

// EnrichOptions configuration for the Enrich method.
type EnrichOptions struct {
	SpecPath     string
	FindingsPath string
	ConfigPath   string
	Format       string
}

// Enrich prints the findings merged with graph and security facts.
func (a *App) Enrich(ctx context.Context, opts EnrichOptions) error {
	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	p, err := a.newPipeline(ctx, opts.ConfigPath, false)
	if err != nil {
		return err
	}
	defer p.close(ctx)

	in, err := p.prepare(ctx, opts.SpecPath, opts.FindingsPath)
	if err != nil {
		return err
	}

	return report.NewRenderer(a.stdout, format).Findings(in.findings)
}

// AnalyzeOptions configuration for the Analyze method.
type AnalyzeOptions struct {
	SpecPath     string
	FindingsPath string
	ConfigPath   string
	Format       string
	// MetricsOut, when set, receives the Prometheus metrics after the run.
	MetricsOut string
}

// Analyze runs the full pipeline and prints the analysis report.
func (a *App) Analyze(ctx context.Context, opts AnalyzeOptions) error {
	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	p, err := a.newPipeline(ctx, opts.ConfigPath, true)
	if err != nil {
		return err
	}
	defer p.close(ctx)

	if err := a.analyzeOnce(ctx, p, opts.SpecPath, opts.FindingsPath, format); err != nil {
		return err
	}

	if opts.MetricsOut != "" {
		return p.recorder.WriteTextfile(opts.MetricsOut)
	}
	return nil
}

func (a *App) analyzeOnce(ctx context.Context, p *pipeline, specPath, findingsPath string, format report.Format) error {
	ctx, span := p.tracer.Start(ctx, "analyze")
	defer span.End()

	start := time.Now()
	in, err := p.prepare(ctx, specPath, findingsPath)
	if err != nil {
		span.RecordError(err)
		return err
	}

	outcome, err := p.orchestrator.Analyze(ctx, orchestrator.Request{
		SpecDigest: in.spec.Digest,
		Findings:   in.findings,
		Graph:      in.graph,
	})
	if err != nil {
		span.RecordError(err)
		return zerr.Wrap(err, "analysis failed")
	}

	p.recorder.Observe(outcome.Level.String(), outcome.Result, time.Since(start).Seconds())
	span.SetAttribute("run.id", outcome.RunID)
	span.SetAttribute("cache.level", outcome.Level.String())
	span.SetAttribute("result.degraded", outcome.Result.Degraded)

	if outcome.Result.Degraded {
		a.logger.Warn("analysis degraded", "reason", outcome.Result.DegradedReason)
	}

	return report.NewRenderer(a.stdout, format).Analysis(report.Analysis{
		Title:    in.spec.Title,
		Version:  in.spec.Version,
		Digest:   in.spec.Digest,
		Findings: in.findings,
		Outcome:  outcome,
	})
}

type inputs struct {
	spec     *domain.SpecModel
	graph    *domain.Graph
	findings []domain.EnrichedFinding
}

// prepare loads the spec and the findings concurrently, publishes the graph and
// enriches the findings against it.
func (p *pipeline) prepare(ctx context.Context, specPath, findingsPath string) (*inputs, error) {
	var (
		spec *domain.SpecModel
		raw  []domain.RawFinding
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		spec, err = p.loadSpec(gctx, specPath)
		return err
	})
	g.Go(func() error {
		var err error
		raw, err = p.findings.Load(gctx, findingsPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph, rebuilt, err := p.holder.Rebuild(spec)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build dependency graph")
	}
	if rebuilt {
		p.logger.Debug("dependency graph published",
			"nodes", graph.NodeCount(), "edges", graph.EdgeCount(), "anomalies", len(graph.Anomalies()))
	}

	return &inputs{
		spec:     spec,
		graph:    graph,
		findings: p.enricher.Enrich(raw, graph, enricher.MetadataFromSpec(spec)),
	}, nil
}
