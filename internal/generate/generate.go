// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate drives the two generative text calls of a research run:
// structuring an outline from the Analysis, then synthesizing the full post.
// Both calls parse the backend response and fall back to deterministic
// templates on any failure, so they always return usable output.
package generate

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/deepdive/internal/instrument"
	"github.com/pdiddy/deepdive/pkg/types"
)

const (
	structureMaxTokens   = 1500
	structureTemperature = 0.8
	synthesisMaxTokens   = 4000
	synthesisTemperature = 0.7
)

// errUnrecognized marks a structure response with no recognized lines.
var errUnrecognized = errors.New("structure response has no recognized lines")

// Coordinator owns the structure and synthesis calls.
type Coordinator struct {
	backend TextBackend
	log     *zap.Logger
	inst    instrument.Instrumenter
}

// New returns a Coordinator. A nil backend makes every call use its fallback.
func New(backend TextBackend, log *zap.Logger, inst instrument.Instrumenter) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{backend: backend, log: log, inst: instrument.OrNop(inst)}
}

func (c *Coordinator) complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.backend == nil {
		return "", ErrNoBackend
	}
	return c.backend.Complete(ctx, req)
}

// Structure builds the ContentStructure for analysis. The result always has
// at least MinConcepts illustration concepts.
func (c *Coordinator) Structure(ctx context.Context, analysis types.Analysis, style types.Style) types.ContentStructure {
	ctx = c.inst.Start(ctx, instrument.StageStructure)
	defer c.inst.End(ctx, instrument.StageStructure)

	s, err := c.structure(ctx, analysis, style)
	if err != nil {
		c.inst.Error(ctx, instrument.StageStructure, err)
		c.log.Warn("structure generation failed, using fallback outline",
			zap.String("topic", analysis.Topic), zap.Error(err))
		return FallbackStructure(analysis.Topic)
	}
	return s
}

func (c *Coordinator) structure(ctx context.Context, analysis types.Analysis, style types.Style) (types.ContentStructure, error) {
	system, err := render(structureSystemTmpl, style)
	if err != nil {
		return types.ContentStructure{}, err
	}
	user, err := render(structureUserTmpl, structurePrompt{Analysis: analysis, Style: style})
	if err != nil {
		return types.ContentStructure{}, err
	}

	resp, err := c.complete(ctx, CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   structureMaxTokens,
		Temperature: structureTemperature,
	})
	if err != nil {
		return types.ContentStructure{}, err
	}

	s, ok := ParseStructure(resp, analysis.Topic)
	if !ok {
		return types.ContentStructure{}, errUnrecognized
	}
	return s, nil
}

// Synthesize writes the final post and interleaves one marker per
// illustration. The result is never empty.
func (c *Coordinator) Synthesize(ctx context.Context, structure types.ContentStructure, analysis types.Analysis, illustrations []types.Illustration, style types.Style) string {
	ctx = c.inst.Start(ctx, instrument.StageSynthesize)
	defer c.inst.End(ctx, instrument.StageSynthesize)

	content, err := c.synthesize(ctx, structure, analysis, illustrations, style)
	if err != nil {
		c.inst.Error(ctx, instrument.StageSynthesize, err)
		c.log.Warn("post synthesis failed, using fallback post",
			zap.String("topic", analysis.Topic), zap.Error(err))
		content = FallbackPost(structure, analysis)
	}
	return InsertMarkers(content, illustrations)
}

func (c *Coordinator) synthesize(ctx context.Context, structure types.ContentStructure, analysis types.Analysis, illustrations []types.Illustration, style types.Style) (string, error) {
	system, err := render(synthesisSystemTmpl, style)
	if err != nil {
		return "", err
	}
	user, err := render(synthesisUserTmpl, synthesisPrompt{
		Structure:     structure,
		Analysis:      analysis,
		Illustrations: illustrations,
		Style:         style,
	})
	if err != nil {
		return "", err
	}

	resp, err := c.complete(ctx, CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   synthesisMaxTokens,
		Temperature: synthesisTemperature,
	})
	if err != nil {
		return "", err
	}
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return "", errors.New("empty post from text backend")
	}
	return resp, nil
}
