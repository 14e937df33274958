// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package illustrate turns illustration concepts into images. The
// Coordinator renders concepts one at a time through a rate limiter and
// drops any concept whose rendering fails. The Tool renders a single
// concept on demand and substitutes a placeholder instead of failing.
package illustrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/deepdive/internal/instrument"
	"github.com/pdiddy/deepdive/pkg/types"
)

// Coordinator renders a batch of concepts sequentially.
type Coordinator struct {
	renderer Renderer
	limiter  *rate.Limiter
	log      *zap.Logger
	inst     instrument.Instrumenter
}

// NewCoordinator returns a Coordinator that paces renderer calls with
// limiter. A nil limiter does not pace.
func NewCoordinator(renderer Renderer, limiter *rate.Limiter, log *zap.Logger, inst instrument.Instrumenter) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Coordinator{renderer: renderer, limiter: limiter, log: log, inst: instrument.OrNop(inst)}
}

// NewLimiter allows perMinute image requests per minute with a burst of one.
func NewLimiter(perMinute float64) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perMinute/60), 1)
}

// Generate renders each concept in order. A concept whose rendering fails is
// logged and omitted, so the result may be shorter than concepts; the
// relative order of survivors is preserved.
func (c *Coordinator) Generate(ctx context.Context, concepts []string) []types.Illustration {
	ctx = c.inst.Start(ctx, instrument.StageIllustrate)
	defer c.inst.End(ctx, instrument.StageIllustrate)

	out := make([]types.Illustration, 0, len(concepts))
	for i, concept := range concepts {
		ill, err := c.render(ctx, concept)
		if err != nil {
			c.inst.Error(ctx, instrument.StageIllustrate, err)
			c.log.Warn("illustration failed, dropping concept",
				zap.Int("index", i), zap.String("concept", concept), zap.Error(err))
			continue
		}
		out = append(out, ill)
	}
	return out
}

func (c *Coordinator) render(ctx context.Context, concept string) (ill types.Illustration, err error) {
	if c.renderer == nil {
		return ill, fmt.Errorf("no renderer configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return ill, fmt.Errorf("waiting for image rate limit: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panicked: %v", r)
		}
	}()
	return c.renderer.Render(ctx, concept)
}

// Tool renders one concept for the diagnostic generate_cartoon operation.
type Tool struct {
	Heuristic  Renderer
	Generative Renderer

	// Limiter, when set, paces generative renders.
	Limiter *rate.Limiter

	Log *zap.Logger
}

// Generate renders concept with the generative renderer for StyleDetailed
// and the heuristic renderer otherwise. Any failure yields a placeholder that
// records the error, so Generate always returns an Illustration.
func (t *Tool) Generate(ctx context.Context, concept string, style ImageStyle) types.Illustration {
	r := t.Heuristic
	if style == StyleDetailed {
		r = t.Generative
		if r == nil {
			r = &GenerativeRenderer{}
		}
	}
	if r == nil {
		r = HeuristicRenderer{}
	}

	ill, err := t.render(ctx, r, concept, style)
	if err != nil {
		if t.Log != nil {
			t.Log.Warn("image generation failed, using placeholder",
				zap.String("concept", concept), zap.String("style", string(style)), zap.Error(err))
		}
		return Placeholder(concept, err)
	}
	return ill
}

func (t *Tool) render(ctx context.Context, r Renderer, concept string, style ImageStyle) (types.Illustration, error) {
	if style == StyleDetailed && t.Limiter != nil {
		if err := t.Limiter.Wait(ctx); err != nil {
			return types.Illustration{}, fmt.Errorf("waiting for image rate limit: %w", err)
		}
	}
	return r.Render(ctx, concept)
}
