package app

import (
	"context"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/specscope/internal/adapters/knowledge"
	"go.trai.ch/specscope/internal/adapters/metrics"
	"go.trai.ch/specscope/internal/adapters/resultstore"
	"go.trai.ch/specscope/internal/adapters/telemetry"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/core/ports"
	"go.trai.ch/specscope/internal/engine/analysiscache"
	"go.trai.ch/specscope/internal/engine/cache"
	"go.trai.ch/specscope/internal/engine/enricher"
	"go.trai.ch/specscope/internal/engine/graphbuilder"
	"go.trai.ch/specscope/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// pipeline is the runtime of one command, assembled from the loaded configuration.
// Watch mode keeps a single pipeline alive so its caches and graph carry over
// between runs.
type pipeline struct {
	cfg        domain.Config
	logger     ports.Logger
	specLoader ports.SpecLoader
	findings   ports.FindingSource
	tracer     ports.Tracer

	parsed   *cache.Store[uint64, *domain.SpecModel]
	holder   *graphbuilder.Holder
	enricher *enricher.Enricher

	// Set only when the pipeline runs analyses.
	analysis     *analysiscache.Cache
	orchestrator *orchestrator.Orchestrator
	recorder     *metrics.Recorder

	closers []func(context.Context) error
}

func (a *App) newPipeline(ctx context.Context, configPath string, analyze bool) (*pipeline, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}

	cfg, err := a.configLoader.Load(cwd, configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	p := &pipeline{
		cfg:        cfg,
		logger:     a.logger,
		specLoader: a.specLoader,
		findings:   a.findings,
		holder:     graphbuilder.NewHolder(graphbuilder.New(a.logger)),
	}

	tracer, shutdown := telemetry.Setup(cfg.Telemetry.Enabled, a.logger)
	p.tracer = tracer
	p.closers = append(p.closers, shutdown)

	if p.parsed, err = cache.New[uint64, *domain.SpecModel]("parse", cfg.Cache.Parse.Capacity,
		cache.WithDefaultTTL(cfg.Cache.Parse.TTL)); err != nil {
		return nil, err
	}

	if p.enricher, err = enricher.New(cfg.Enricher); err != nil {
		return nil, err
	}

	if analyze {
		if err := p.initAnalysis(ctx, a, cwd); err != nil {
			p.close(ctx)
			return nil, err
		}
	}

	return p, nil
}

func (p *pipeline) initAnalysis(_ context.Context, a *App, cwd string) error {
	var err error
	if p.analysis, err = analysiscache.New(p.cfg.Cache); err != nil {
		return err
	}

	engine, err := a.newEngine(p.cfg.Engine, p.logger)
	if err != nil {
		return zerr.Wrap(err, "failed to create reasoning engine client")
	}

	opts := []orchestrator.Option{orchestrator.WithBudget(orchestrator.BudgetFromConfig(p.cfg))}

	if p.cfg.Knowledge.Path != "" {
		retriever, err := knowledge.NewFileRetriever(p.cfg.Knowledge.Path)
		if err != nil {
			return err
		}
		opts = append(opts, orchestrator.WithKnowledge(retriever))
	}

	store, closeStore, err := resultstore.New(p.cfg.Store, cwd)
	if err != nil {
		return err
	}
	p.closers = append(p.closers, func(context.Context) error { return closeStore() })
	if store != nil {
		opts = append(opts, orchestrator.WithResultStore(store, p.cfg.Store.TTL))
	}

	if p.orchestrator, err = orchestrator.New(engine, p.analysis, p.tracer, p.logger, opts...); err != nil {
		return err
	}

	p.recorder = metrics.NewRecorder(p.cacheStats)
	return nil
}

// loadSpec parses the spec at path, reusing the parse of identical content.
func (p *pipeline) loadSpec(ctx context.Context, path string) (*domain.SpecModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSpecReadFailed.Error()), "path", path)
	}

	key := xxhash.Sum64(data)
	if spec, ok := p.parsed.Get(key); ok {
		p.logger.Debug("spec parse cache hit", "path", path)
		return spec, nil
	}

	spec, err := p.specLoader.Parse(ctx, data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	p.parsed.Put(key, spec, 0)
	return spec, nil
}

func (p *pipeline) cacheStats() []cache.Stats {
	stats := []cache.Stats{p.parsed.Stats()}
	if p.analysis != nil {
		stats = append(stats, p.analysis.Stats()...)
	}
	return stats
}

func (p *pipeline) sweepers() []cache.Sweeper {
	sweepers := []cache.Sweeper{p.parsed}
	if p.analysis != nil {
		sweepers = append(sweepers, p.analysis.Sweepers()...)
	}
	return sweepers
}

// close releases resources in reverse order of acquisition.
func (p *pipeline) close(ctx context.Context) {
	for _, c := range slices.Backward(p.closers) {
		if err := c(ctx); err != nil {
			p.logger.Warn("failed to release resource", "error", err.Error())
		}
	}
	p.closers = nil
}
