// Package talentcalc builds the talent trees of a class and serves rank
// tooltips. Live data is preferred; when it cannot be fetched or built the
// last good snapshot is used, then the bundled dataset.
package talentcalc

//go:generate mockgen -destination=mock/mock_service.go -package=talentcalcmock github.com/KirkDiggler/talent-api/internal/orchestrators/talentcalc Service,Source

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/KirkDiggler/talent-api/internal/engine/talentgraph"
	"github.com/KirkDiggler/talent-api/internal/engine/tooltip"
	"github.com/KirkDiggler/talent-api/internal/entities/talents"
	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/fallback"
	"github.com/KirkDiggler/talent-api/internal/metrics"
	"github.com/KirkDiggler/talent-api/internal/pkg/clock"
	talentsnapshot "github.com/KirkDiggler/talent-api/internal/repositories/talent_snapshot"
)

// DefaultCacheTTL is how long a built class is served from memory.
const DefaultCacheTTL = 5 * time.Minute

// Fallback reasons.
const (
	reasonFetch    = "fetch_failed"
	reasonBuild    = "build_failed"
	reasonEmpty    = "empty_build"
	reasonNoSource = "no_source"
	reasonSnapshot = "snapshot_unavailable"
)

// Service defines the talent calculator use cases.
type Service interface {
	ListClasses(ctx context.Context, input *ListClassesInput) (*ListClassesOutput, error)
	GetTalentTrees(ctx context.Context, input *GetTalentTreesInput) (*GetTalentTreesOutput, error)
	GetTalentDescription(ctx context.Context, input *GetTalentDescriptionInput) (*GetTalentDescriptionOutput, error)
	Invalidate(ctx context.Context, input *InvalidateInput) (*InvalidateOutput, error)
}

// Source fetches raw payloads. The HTTP client and the DBC repository both
// satisfy it.
type Source interface {
	FetchPayload(ctx context.Context, class string) (*talents.Payload, error)
}

// Config holds the dependencies for the orchestrator.
type Config struct {
	// Source is optional; without it every class is served from fallbacks.
	Source Source
	// SourceName labels fetch metrics ("http", "postgres").
	SourceName string
	// Snapshots is optional.
	Snapshots talentsnapshot.Repository
	Static    *fallback.Dataset
	Policy    talentgraph.Policy
	Metrics   metrics.Recorder
	Clock     clock.Clock
	CacheTTL  time.Duration
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	if c.Static == nil {
		vb.RequiredField("Static")
	}
	if c.CacheTTL < 0 {
		vb.InvalidField("CacheTTL", "must not be negative")
	}
	if c.Policy != "" {
		if _, err := talentgraph.ParsePolicy(string(c.Policy)); err != nil {
			vb.InvalidField("Policy", err.Error())
		}
	}
	return vb.Build()
}

type cached struct {
	out     *GetTalentTreesOutput
	data    talents.TalentData
	expires time.Time
}

type orchestrator struct {
	source     Source
	sourceName string
	snapshots  talentsnapshot.Repository
	static     *fallback.Dataset
	policy     talentgraph.Policy
	metrics    metrics.Recorder
	clock      clock.Clock
	cacheTTL   time.Duration

	mu    sync.Mutex
	cache map[string]cached
}

// NewOrchestrator creates a new talent calculator orchestrator.
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		source:     cfg.Source,
		sourceName: cfg.SourceName,
		snapshots:  cfg.Snapshots,
		static:     cfg.Static,
		policy:     cfg.Policy,
		metrics:    cfg.Metrics,
		clock:      cfg.Clock,
		cacheTTL:   cfg.CacheTTL,
		cache:      make(map[string]cached),
	}
	if o.policy == "" {
		o.policy = talentgraph.PolicyLive
	}
	if o.metrics == nil {
		o.metrics = metrics.Nop{}
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.cacheTTL == 0 {
		o.cacheTTL = DefaultCacheTTL
	}
	if o.sourceName == "" {
		o.sourceName = "source"
	}
	return o, nil
}

func (o *orchestrator) ListClasses(_ context.Context, _ *ListClassesInput) (*ListClassesOutput, error) {
	out := &ListClassesOutput{Classes: make([]ClassInfo, 0, len(talents.Classes))}
	for _, c := range talents.Classes {
		out.Classes = append(out.Classes, ClassInfo{
			Name:        c.Name,
			Mask:        c.Mask,
			HasFallback: o.static.Has(c.Name),
		})
	}
	return out, nil
}

func (o *orchestrator) GetTalentTrees(ctx context.Context, input *GetTalentTreesInput) (*GetTalentTreesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	class, err := resolveClass(input.Class)
	if err != nil {
		return nil, err
	}

	entry, err := o.load(ctx, class)
	if err != nil {
		return nil, err
	}
	return entry.out, nil
}

func (o *orchestrator) GetTalentDescription(ctx context.Context, input *GetTalentDescriptionInput) (*GetTalentDescriptionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("tree", input.Tree, vb)
	errors.ValidateRequired("talent", input.Talent, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}
	class, err := resolveClass(input.Class)
	if err != nil {
		return nil, err
	}

	entry, err := o.load(ctx, class)
	if err != nil {
		return nil, err
	}

	tal, ok := entry.data.Talent(input.Tree, input.Talent)
	if !ok {
		return nil, errors.NotFoundf("talent %q not found in %s %s", input.Talent, class.Name, input.Tree)
	}

	rank := min(max(input.Rank, 1), max(tal.MaxRank, 1))
	desc := tal.Describe(rank)
	o.metrics.AddUnresolved(tooltip.Unresolved(desc))

	return &GetTalentDescriptionOutput{
		Name:        tal.Name,
		Rank:        rank,
		MaxRank:     tal.MaxRank,
		Header:      tal.HeaderFor(rank),
		Description: desc,
	}, nil
}

func (o *orchestrator) Invalidate(_ context.Context, input *InvalidateInput) (*InvalidateOutput, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if input == nil || input.Class == "" {
		n := len(o.cache)
		o.cache = make(map[string]cached)
		return &InvalidateOutput{Dropped: n}, nil
	}
	class, err := resolveClass(input.Class)
	if err != nil {
		return nil, err
	}
	if _, ok := o.cache[class.Name]; !ok {
		return &InvalidateOutput{}, nil
	}
	delete(o.cache, class.Name)
	return &InvalidateOutput{Dropped: 1}, nil
}

func resolveClass(name string) (talents.Class, error) {
	if name == "" {
		return talents.Class{}, errors.InvalidArgument("class is required")
	}
	c, ok := talents.ClassByName(name)
	if !ok {
		return talents.Class{}, errors.InvalidArgumentf("unknown class %q", name)
	}
	return c, nil
}

func (o *orchestrator) cached(class string) (cached, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	entry, ok := o.cache[class]
	if !ok || !o.clock.Now().Before(entry.expires) {
		return cached{}, false
	}
	return entry, true
}

func (o *orchestrator) store(class string, entry cached) {
	entry.expires = o.clock.Now().Add(o.cacheTTL)
	o.mu.Lock()
	o.cache[class] = entry
	o.mu.Unlock()
}

// load walks the fallback chain: live build, snapshot build, bundled dataset.
func (o *orchestrator) load(ctx context.Context, class talents.Class) (cached, error) {
	if entry, ok := o.cached(class.Name); ok {
		return entry, nil
	}

	static, hasStatic := o.static.Class(class.Name)
	opts := []talentgraph.Option{
		talentgraph.WithClassMask(class.Mask),
		talentgraph.WithPolicy(o.policy),
	}
	if hasStatic {
		opts = append(opts, talentgraph.WithStatic(static))
	}

	data, liveErr := o.buildLive(ctx, class, opts)
	if liveErr == nil {
		o.metrics.IncBuild(class.Name, metrics.ResultLive)
		entry := newEntry(class, data, metrics.ResultLive, "")
		o.store(class.Name, entry)
		return entry, nil
	}
	if ctx.Err() != nil {
		return cached{}, errors.Wrap(ctx.Err(), "talent request aborted")
	}

	warning := errors.GetMessage(liveErr)
	slog.WarnContext(ctx, "Live talent data unavailable, falling back",
		"class", class.Name,
		"error", liveErr)

	if data, err := o.buildSnapshot(ctx, class, opts); err == nil {
		o.metrics.IncBuild(class.Name, metrics.ResultSnapshot)
		entry := newEntry(class, data, metrics.ResultSnapshot, warning)
		o.store(class.Name, entry)
		return entry, nil
	} else if !errors.IsNotFound(err) {
		slog.WarnContext(ctx, "Talent snapshot unusable",
			"class", class.Name,
			"error", err)
	}
	o.metrics.IncFallback(class.Name, reasonSnapshot)

	if !hasStatic {
		o.metrics.IncBuild(class.Name, metrics.ResultError)
		return cached{}, errors.WrapWithCodef(liveErr, errors.CodeUnavailable,
			"no talent data available for %s", class.Name)
	}

	o.metrics.IncBuild(class.Name, metrics.ResultStatic)
	entry := newEntry(class, static, metrics.ResultStatic, warning)
	o.store(class.Name, entry)
	return entry, nil
}

func (o *orchestrator) buildLive(ctx context.Context, class talents.Class, opts []talentgraph.Option) (talents.TalentData, error) {
	if o.source == nil {
		o.metrics.IncFallback(class.Name, reasonNoSource)
		return nil, errors.Unavailable("no live talent source configured")
	}

	start := o.clock.Now()
	payload, err := o.source.FetchPayload(ctx, class.Name)
	o.metrics.ObserveFetch(o.sourceName, o.clock.Now().Sub(start), err)
	if err != nil {
		o.metrics.IncFallback(class.Name, reasonFetch)
		return nil, err
	}

	data, err := safeBuild(payload, opts)
	if err != nil {
		o.metrics.IncFallback(class.Name, reasonBuild)
		return nil, err
	}
	if liveTalents(data) == 0 {
		o.metrics.IncFallback(class.Name, reasonEmpty)
		return nil, errors.FailedPreconditionf("live data has no talents for %s", class.Name)
	}

	if o.snapshots != nil {
		_, err := o.snapshots.Put(ctx, talentsnapshot.PutInput{
			Snapshot: &talentsnapshot.Snapshot{Class: class.Name, Payload: payload},
		})
		if err != nil {
			slog.WarnContext(ctx, "Failed to store talent snapshot",
				"class", class.Name,
				"error", err)
		}
	}
	return data, nil
}

func (o *orchestrator) buildSnapshot(ctx context.Context, class talents.Class, opts []talentgraph.Option) (talents.TalentData, error) {
	if o.snapshots == nil {
		return nil, errors.NotFound("no snapshot store configured")
	}
	got, err := o.snapshots.Get(ctx, talentsnapshot.GetInput{Class: class.Name})
	if err != nil {
		return nil, err
	}
	data, err := safeBuild(got.Snapshot.Payload, opts)
	if err != nil {
		return nil, err
	}
	if liveTalents(data) == 0 {
		return nil, errors.FailedPreconditionf("snapshot has no talents for %s", class.Name)
	}
	return data, nil
}

// safeBuild runs the normalizer and turns a panic into an Internal error.
func safeBuild(p *talents.Payload, opts []talentgraph.Option) (talents.TalentData, error) {
	var (
		data talents.TalentData
		err  error
		pc   panics.Catcher
	)
	pc.Try(func() {
		data, err = talentgraph.Build(p, opts...)
	})
	if r := pc.Recovered(); r != nil {
		return nil, errors.WrapWithCode(r.AsError(), errors.CodeInternal, "talent build panicked")
	}
	return data, err
}

func liveTalents(data talents.TalentData) int {
	n := 0
	for _, tree := range data {
		n += len(tree.Talents)
	}
	return n
}

func newEntry(class talents.Class, data talents.TalentData, result, warning string) cached {
	names := data.Names()
	trees := make([]*talents.Tree, 0, len(names))
	for _, name := range names {
		trees = append(trees, data[name])
	}
	return cached{
		data: data,
		out: &GetTalentTreesOutput{
			Class:           class.Name,
			Trees:           trees,
			Source:          result,
			IsFallback:      result != metrics.ResultLive,
			Warning:         warning,
			TotalPoints:     talents.TotalPoints,
			FirstPointLevel: talents.FirstPointLevel,
		},
	}
}
