// Package orchestrator runs the two-stage analysis of enriched findings against
// the external reasoning engine, backed by the analysis cache.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/core/ports"
	"go.trai.ch/specscope/internal/engine/analysiscache"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Budget bounds the time an analysis may spend on external calls.
type Budget struct {
	// Total bounds one analysis end to end.
	Total time.Duration
	// Triage and Deep cap their stages. Zero means only Total applies.
	Triage time.Duration
	Deep   time.Duration
	// TriageShare is the fraction of the remaining budget triage may use.
	TriageShare float64
	Knowledge   time.Duration
}

// BudgetFromConfig derives a Budget from the engine and knowledge settings.
func BudgetFromConfig(cfg domain.Config) Budget {
	return Budget{
		Total:       cfg.Engine.Budget,
		Triage:      cfg.Engine.TriageTimeout,
		Deep:        cfg.Engine.DeepTimeout,
		TriageShare: cfg.Engine.TriageShare,
		Knowledge:   cfg.Knowledge.Timeout,
	}
}

// Request is the input of one analysis.
type Request struct {
	SpecDigest string
	Findings   []domain.EnrichedFinding
	Graph      *domain.Graph
}

// Outcome is the result of one analysis together with how it was obtained.
type Outcome struct {
	RunID  string                `json:"runId"`
	Result domain.AnalysisResult `json:"result"`
	// Level is the cache level that served the result, LevelNone when computed.
	Level     analysiscache.Level    `json:"cacheLevel"`
	FromStore bool                   `json:"fromStore"`
	Shared    bool                   `json:"shared"`
	States    []domain.AnalysisState `json:"states"`
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithBudget overrides the default time budget.
func WithBudget(b Budget) Option {
	return func(o *Orchestrator) {
		o.budget = b
	}
}

// WithKnowledge enables reference snippets for the deep stage.
func WithKnowledge(k ports.KnowledgeRetriever) Option {
	return func(o *Orchestrator) {
		o.knowledge = k
	}
}

// WithResultStore adds a durable tier consulted after an analysis cache miss.
func WithResultStore(s ports.ResultStore, ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.store = s
		o.storeTTL = ttl
	}
}

// Orchestrator runs analyses. Concurrent analyses of the same spec share one
// computation; analyses of different specs run independently.
type Orchestrator struct {
	engine    ports.ReasoningEngine
	cache     *analysiscache.Cache
	tracer    ports.Tracer
	logger    ports.Logger
	knowledge ports.KnowledgeRetriever
	store     ports.ResultStore
	storeTTL  time.Duration
	budget    Budget
	validator *chainValidator

	flights singleflight.Group
}

// New creates an Orchestrator.
func New(
	engine ports.ReasoningEngine,
	cache *analysiscache.Cache,
	tracer ports.Tracer,
	logger ports.Logger,
	opts ...Option,
) (*Orchestrator, error) {
	validator, err := newChainValidator()
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		engine:    engine,
		cache:     cache,
		tracer:    tracer,
		logger:    logger,
		budget:    BudgetFromConfig(domain.DefaultConfig()),
		validator: validator,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

type flight struct {
	result    domain.AnalysisResult
	level     analysiscache.Level
	fromStore bool
	states    []domain.AnalysisState
}

// Analyze returns the analysis of req. Engine failures degrade the result instead
// of failing; only a missing spec or graph is an error. The shared computation
// keeps the deadline of the caller that started it but not its cancellation, and
// is further bounded by the total budget. A caller whose ctx ends before the
// computation does gets a degraded result; the computation continues for the
// callers still waiting.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*Outcome, error) {
	if req.Graph == nil || req.SpecDigest == "" {
		return nil, domain.ErrFatalInput
	}

	keys, err := analysiscache.KeysFor(req.SpecDigest, req.Findings, req.Graph)
	if err != nil {
		o.logger.Warn("bypassing analysis cache level", "error", err.Error())
	}

	ch := o.flights.DoChan(req.SpecDigest, func() (any, error) {
		detached, cancel := detach(ctx)
		defer cancel()
		return o.run(detached, req, keys)
	})

	select {
	case <-ctx.Done():
		return o.abandon(ctx, req), nil
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		f := res.Val.(*flight)
		result := f.result
		if res.Shared {
			result = Reconcile(f.result, req.Findings)
		}
		return &Outcome{
			RunID:     uuid.NewString(),
			Result:    result,
			Level:     f.level,
			FromStore: f.fromStore,
			Shared:    res.Shared,
			States:    slices.Clone(f.states),
		}, nil
	}
}

// abandon is the outcome for a caller that stopped waiting: statistics only.
func (o *Orchestrator) abandon(ctx context.Context, req Request) *Outcome {
	trail := domain.NewStateTrail()
	must(trail.Advance(domain.StateTriagePending))

	cause := stageError(ctx, ctx.Err())
	o.logger.Warn("analysis abandoned by caller", "reason", cause.Error())
	must(trail.Advance(domain.StateDegraded))
	must(trail.Advance(domain.StateDone))

	result := newResult(req.Findings, nil)
	result.Degraded = true
	result.DegradedReason = "wait: " + reasonFor(cause)
	return &Outcome{
		RunID:  uuid.NewString(),
		Result: result,
		Level:  analysiscache.LevelNone,
		States: trail.States(),
	}
}

// detach keeps ctx's deadline and values but not its cancellation.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, deadline)
	}
	return context.WithCancel(detached)
}

func (o *Orchestrator) run(ctx context.Context, req Request, keys analysiscache.Keys) (f *flight, err error) {
	ctx, span := o.tracer.Start(ctx, "analysis")
	defer span.End()
	span.SetAttribute("spec.digest", req.SpecDigest)
	span.SetAttribute("findings.count", len(req.Findings))

	trail := domain.NewStateTrail()
	defer func() {
		if r := recover(); r != nil {
			_ = trail.Advance(domain.StateFailed)
			err = zerr.With(zerr.With(zerr.New("analysis panicked"), "panic", fmt.Sprint(r)), "states", trail.States())
			span.RecordError(err)
			f = nil
		}
	}()

	if result, level, ok := o.cache.Lookup(keys); ok {
		span.SetAttribute("cache.level", level.String())
		return o.finish(trail, Reconcile(result, req.Findings), level, false)
	}

	if stored := o.fromStore(ctx, keys.Spec); stored != nil {
		o.cache.StoreAll(keys, *stored)
		span.SetAttribute("cache.level", "store")
		return o.finish(trail, Reconcile(*stored, req.Findings), analysiscache.LevelNone, true)
	}

	ctx, cancel := withTimeout(ctx, o.budget.Total)
	defer cancel()

	result := o.compute(ctx, trail, req)
	if !result.Degraded {
		o.cache.StoreAll(keys, result)
		o.toStore(ctx, keys.Spec, result)
	}
	return &flight{result: result, states: trail.States()}, nil
}

func (o *Orchestrator) finish(
	trail *domain.StateTrail,
	result domain.AnalysisResult,
	level analysiscache.Level,
	fromStore bool,
) (*flight, error) {
	if err := trail.Advance(domain.StateDone); err != nil {
		return nil, err
	}
	return &flight{result: result, level: level, fromStore: fromStore, states: trail.States()}, nil
}

// compute runs triage and deep analysis. It always ends in StateDone.
func (o *Orchestrator) compute(ctx context.Context, trail *domain.StateTrail, req Request) domain.AnalysisResult {
	must(trail.Advance(domain.StateTriagePending))
	subset, err := o.triage(ctx, req.Findings)
	if err != nil {
		return o.degrade(trail, req.Findings, "triage", err)
	}
	must(trail.Advance(domain.StateTriageDone))

	if len(subset) == 0 {
		must(trail.Advance(domain.StateDone))
		return newResult(req.Findings, nil)
	}

	snippets := o.retrieve(ctx, subset)

	must(trail.Advance(domain.StateDeepPending))
	chains, err := o.deep(ctx, req.Findings, subset, snippets)
	if err != nil {
		return o.degrade(trail, req.Findings, "deep", err)
	}
	must(trail.Advance(domain.StateDone))
	return newResult(req.Findings, chains)
}

func (o *Orchestrator) triage(ctx context.Context, findings []domain.EnrichedFinding) ([]domain.EnrichedFinding, error) {
	ctx, cancel := stageContext(ctx, o.budget.Triage, o.budget.TriageShare)
	defer cancel()
	ctx, span := o.tracer.Start(ctx, "analysis.triage")
	defer span.End()
	recordDeadline(ctx, span)

	items := make([]ports.TriageItem, len(findings))
	for i, f := range findings {
		items[i] = ports.TriageItem{ID: f.ID, Category: f.Category, Severity: f.Severity, Endpoint: f.Endpoint()}
	}

	resp, err := o.engine.Triage(ctx, ports.TriageRequest{RequestID: uuid.NewString(), Findings: items})
	if err != nil {
		err = stageError(ctx, err)
		span.RecordError(err)
		return nil, err
	}
	if resp == nil {
		err = zerr.With(zerr.Wrap(domain.ErrOrchestrationMalformedResponse, "empty response"), "stage", "triage")
		span.RecordError(err)
		return nil, err
	}

	selected := make(map[string]struct{}, len(resp.IDs))
	for _, id := range resp.IDs {
		selected[id] = struct{}{}
	}
	var subset []domain.EnrichedFinding
	for _, f := range findings {
		if _, ok := selected[f.ID]; ok {
			subset = append(subset, f)
			delete(selected, f.ID)
		}
	}
	if len(selected) > 0 {
		o.logger.Debug("ignoring unknown triage ids", "count", len(selected))
	}
	span.SetAttribute("triage.selected", len(subset))
	return subset, nil
}

// retrieve fetches reference snippets for the categories of subset. Failures only
// lose the optional context.
func (o *Orchestrator) retrieve(ctx context.Context, subset []domain.EnrichedFinding) map[string][]string {
	if o.knowledge == nil {
		return nil
	}
	ctx, cancel := withTimeout(ctx, o.budget.Knowledge)
	defer cancel()

	var topics []string
	for _, f := range subset {
		if f.Category != "" {
			topics = append(topics, f.Category)
		}
	}
	slices.Sort(topics)
	topics = slices.Compact(topics)

	snippets, err := o.knowledge.Retrieve(ctx, topics)
	if err != nil {
		o.logger.Warn("continuing without reference context", "error", err.Error())
		return nil
	}
	return snippets
}

func (o *Orchestrator) deep(
	ctx context.Context,
	findings, subset []domain.EnrichedFinding,
	snippets map[string][]string,
) ([]domain.Chain, error) {
	ctx, cancel := stageContext(ctx, o.budget.Deep, 1)
	defer cancel()
	ctx, span := o.tracer.Start(ctx, "analysis.deep")
	defer span.End()
	recordDeadline(ctx, span)

	resp, err := o.engine.Deep(ctx, ports.DeepRequest{RequestID: uuid.NewString(), Findings: subset, Context: snippets})
	if err != nil {
		err = stageError(ctx, err)
		span.RecordError(err)
		return nil, err
	}
	if resp == nil {
		err = zerr.With(zerr.Wrap(domain.ErrOrchestrationMalformedResponse, "empty response"), "stage", "deep")
		span.RecordError(err)
		return nil, err
	}

	known := idSet(findings)
	chains := []domain.Chain{}
	for i, raw := range resp.Chains {
		chain, err := o.validator.Decode(raw, known)
		if err != nil {
			o.logger.Warn("discarding chain", "index", i, "reason", err.Error())
			continue
		}
		chains = append(chains, chain)
	}
	span.SetAttribute("chains.accepted", len(chains))
	span.SetAttribute("chains.rejected", len(resp.Chains)-len(chains))
	return chains, nil
}

func (o *Orchestrator) degrade(
	trail *domain.StateTrail,
	findings []domain.EnrichedFinding,
	stage string,
	cause error,
) domain.AnalysisResult {
	must(trail.Advance(domain.StateDegraded))
	must(trail.Advance(domain.StateDone))

	reason := stage + ": " + reasonFor(cause)
	o.logger.Warn("analysis degraded to statistics only", "stage", stage, "reason", cause.Error())

	result := newResult(findings, nil)
	result.Degraded = true
	result.DegradedReason = reason
	return result
}

func (o *Orchestrator) fromStore(ctx context.Context, key string) *domain.AnalysisResult {
	if o.store == nil || key == "" {
		return nil
	}
	result, err := o.store.Get(ctx, key)
	if err != nil {
		o.logger.Warn("result store lookup failed", "error", err.Error())
		return nil
	}
	return result
}

func (o *Orchestrator) toStore(ctx context.Context, key string, result domain.AnalysisResult) {
	if o.store == nil || key == "" {
		return
	}
	if err := o.store.Put(ctx, key, result, o.storeTTL); err != nil {
		o.logger.Warn("result store write failed", "error", err.Error())
	}
}

func newResult(findings []domain.EnrichedFinding, chains []domain.Chain) domain.AnalysisResult {
	if chains == nil {
		chains = []domain.Chain{}
	}
	return domain.AnalysisResult{
		Chains: chains,
		Stats:  ComputeStatistics(findings, chains),
	}
}

// stageContext bounds a stage by limit and by share of the time left in ctx.
func stageContext(ctx context.Context, limit time.Duration, share float64) (context.Context, context.CancelFunc) {
	timeout := limit
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if share > 0 && share < 1 {
			remaining = time.Duration(float64(remaining) * share)
		}
		if timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return withTimeout(ctx, timeout)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func stageError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Join(domain.ErrOrchestrationTimeout, err)
	}
	return err
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrOrchestrationTimeout), errors.Is(err, context.DeadlineExceeded):
		return domain.ErrOrchestrationTimeout.Error()
	case errors.Is(err, domain.ErrOrchestrationMalformedResponse):
		return domain.ErrOrchestrationMalformedResponse.Error()
	default:
		return err.Error()
	}
}

// must panics on an invalid transition; the panic is converted to StateFailed by run.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

func recordDeadline(ctx context.Context, span ports.Span) {
	if deadline, ok := ctx.Deadline(); ok {
		span.SetAttribute("stage.timeout", time.Until(deadline))
	}
}
