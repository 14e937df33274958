// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a research request through its five phases:
// gather, aggregate, structure, illustrate, and synthesize. Gather fans out
// to every retrieval call at once and waits for all of them to settle; the
// remaining phases run in order, each consuming the previous phase's output.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/deepdive/internal/aggregate"
	"github.com/pdiddy/deepdive/internal/generate"
	"github.com/pdiddy/deepdive/internal/illustrate"
	"github.com/pdiddy/deepdive/internal/instrument"
	"github.com/pdiddy/deepdive/internal/retrieval"
	"github.com/pdiddy/deepdive/pkg/types"
)

var (
	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid research request")

	// ErrEmptyContent reports a run that produced no content despite every
	// fallback. It indicates a defect, not a degraded source.
	ErrEmptyContent = errors.New("research produced empty content")
)

// Analyzer turns a gathered bundle into an Analysis.
type Analyzer interface {
	Analyze(ctx context.Context, bundle types.RawBundle, topic string) types.Analysis
}

// Generator structures and synthesizes the post.
type Generator interface {
	Structure(ctx context.Context, analysis types.Analysis, style types.Style) types.ContentStructure
	Synthesize(ctx context.Context, structure types.ContentStructure, analysis types.Analysis, illustrations []types.Illustration, style types.Style) string
}

// Illustrator renders illustration concepts, dropping failures.
type Illustrator interface {
	Generate(ctx context.Context, concepts []string) []types.Illustration
}

// Stages are the collaborators an Orchestrator drives. Nil Web or Video
// backends are recorded as failed sources on every run. Nil Analyzer,
// Generator and Illustrator select the heuristic aggregator, the fallback
// generator, and the heuristic renderer respectively.
type Stages struct {
	Web         retrieval.WebBackend
	Video       retrieval.VideoBackend
	Analyzer    Analyzer
	Generator   Generator
	Illustrator Illustrator
}

// Options tune an Orchestrator.
type Options struct {
	// Defaults supplies the depth and style of requests that leave them unset,
	// and the illustration cap.
	Defaults types.ResearchConfig

	Log  *zap.Logger
	Inst instrument.Instrumenter
}

// Orchestrator owns the research lifecycle. It holds no per-request state,
// so one Orchestrator may serve concurrent runs when its stages allow it.
type Orchestrator struct {
	stages   Stages
	defaults types.ResearchConfig
	log      *zap.Logger
	inst     instrument.Instrumenter

	now   func() time.Time
	newID func() string
}

// New returns an Orchestrator over stages.
func New(stages Stages, opts Options) *Orchestrator {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	inst := instrument.OrNop(opts.Inst)
	if stages.Analyzer == nil {
		stages.Analyzer = aggregate.New(log, inst)
	}
	if stages.Generator == nil {
		stages.Generator = generate.New(nil, log, inst)
	}
	if stages.Illustrator == nil {
		stages.Illustrator = illustrate.NewCoordinator(illustrate.HeuristicRenderer{}, nil, log, inst)
	}
	return &Orchestrator{
		stages:   stages,
		defaults: opts.Defaults,
		log:      log,
		inst:     inst,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims the topic, fills an unset depth or style from the
// configured defaults, and validates the request.
func (o *Orchestrator) Normalize(req types.ResearchRequest) (types.ResearchRequest, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Depth == 0 {
		req.Depth = o.defaults.DefaultDepth
		if req.Depth == 0 {
			req.Depth = types.DefaultDepth
		}
	}
	if req.Style == "" {
		req.Style = o.defaults.DefaultStyle
		if req.Style == "" {
			req.Style = types.StyleHumorous
		}
	}
	if err := validate.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return req, nil
}

// Run executes every phase for req and assembles the result. Source,
// aggregation, generation and illustration failures degrade the output
// instead of failing the run. Run returns an error only for an invalid
// request or empty final content.
func (o *Orchestrator) Run(ctx context.Context, req types.ResearchRequest) (*types.ResearchResult, error) {
	started := o.now()
	req, err := o.Normalize(req)
	if err != nil {
		return nil, err
	}
	log := o.log.With(zap.String("topic", req.Topic), zap.Int("depth", req.Depth))
	log.Info("research started", zap.String("style", string(req.Style)))

	bundle := o.gather(ctx, req)
	sources := aggregate.Normalize(bundle)

	analysis := o.stages.Analyzer.Analyze(ctx, bundle, req.Topic)

	structure := o.stages.Generator.Structure(ctx, analysis, req.Style)

	illustrations := []types.Illustration{}
	if req.IncludeIllustrations {
		concepts := structure.IllustrationConcepts
		if n := o.defaults.IllustrationCount; n > 0 && len(concepts) > n {
			concepts = concepts[:n]
		}
		if got := o.stages.Illustrator.Generate(ctx, concepts); got != nil {
			illustrations = got
		}
	}

	content := o.stages.Generator.Synthesize(ctx, structure, analysis, illustrations, req.Style)
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	finished := o.now()
	result := &types.ResearchResult{
		ID:              o.newID(),
		Topic:           req.Topic,
		Style:           req.Style,
		GeneratedAt:     finished.UTC(),
		Content:         content,
		Illustrations:   illustrations,
		AnalysisSummary: analysis.Summary,
		Analysis:        analysis,
		Sources:         sources,
		Metrics: types.Metrics{
			WordCount:         len(strings.Fields(content)),
			SourceCount:       len(sources),
			IllustrationCount: len(illustrations),
			ResearchDepth:     req.Depth,
			FailedSources:     len(bundle.Failures),
			DurationMS:        finished.Sub(started).Milliseconds(),
		},
	}
	log.Info("research complete",
		zap.String("id", result.ID),
		zap.Int("sources", result.Metrics.SourceCount),
		zap.Int("failed_sources", result.Metrics.FailedSources),
		zap.Int("illustrations", result.Metrics.IllustrationCount),
		zap.Int("words", result.Metrics.WordCount),
		zap.Bool("fallback_structure", structure.Fallback))
	return result, nil
}
