// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/deepdive/internal/aggregate"
	"github.com/pdiddy/deepdive/internal/generate"
	"github.com/pdiddy/deepdive/internal/illustrate"
	"github.com/pdiddy/deepdive/internal/instrument"
	"github.com/pdiddy/deepdive/internal/retrieval"
	"github.com/pdiddy/deepdive/pkg/types"
)

// Backends are the concrete collaborators built from a Config. The
// diagnostic operations use them directly.
type Backends struct {
	Web    *retrieval.Web
	Video  *retrieval.YouTube
	Text   generate.TextBackend
	Images illustrate.ImageBackend

	// Limiter paces every image request, from research runs and the
	// diagnostic tool alike.
	Limiter *rate.Limiter

	// Tool renders single concepts for the generate_cartoon operation.
	Tool *illustrate.Tool
}

// NewBackends builds every backend cfg selects. A generative provider
// whose API key is missing is left unset and logged, so the stages that
// need it fall back.
func NewBackends(ctx context.Context, cfg *types.Config, log *zap.Logger, inst instrument.Instrumenter) (*Backends, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Backends{
		Web:     retrieval.NewWeb(cfg.Web, log.Named("web"), inst),
		Video:   retrieval.NewYouTube(cfg.Video, log.Named("video"), inst),
		Limiter: illustrate.NewLimiter(cfg.Image.PerMinute),
	}

	text, err := newTextBackend(ctx, cfg.Text)
	if err != nil {
		return nil, err
	}
	if text == nil && cfg.Text.Provider != types.TextProviderNone {
		log.Warn("text backend not configured, generation will use fallbacks",
			zap.String("provider", string(cfg.Text.Provider)))
	}
	b.Text = text

	images, err := newImageBackend(ctx, cfg.Image)
	if err != nil {
		return nil, err
	}
	if images == nil && cfg.Image.Provider != types.ImageProviderNone {
		log.Warn("image backend not configured", zap.String("provider", string(cfg.Image.Provider)))
	}
	b.Images = images

	b.Tool = &illustrate.Tool{Heuristic: illustrate.HeuristicRenderer{}, Log: log.Named("illustrate")}
	if images != nil {
		b.Tool.Generative = &illustrate.GenerativeRenderer{Backend: images}
		b.Tool.Limiter = b.Limiter
	}
	return b, nil
}

func newTextBackend(ctx context.Context, cfg types.TextConfig) (generate.TextBackend, error) {
	switch cfg.Provider {
	case types.TextProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, nil
		}
		return &generate.ClaudeBackend{
			APIKey:     cfg.AnthropicAPIKey,
			Model:      cfg.Model,
			Client:     &http.Client{Timeout: cfg.Timeout},
			MaxRetries: cfg.MaxRetries,
		}, nil
	case types.TextProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		g, err := generate.NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("creating text backend: %w", err)
		}
		return g, nil
	}
	return nil, nil
}

func newImageBackend(ctx context.Context, cfg types.ImageConfig) (illustrate.ImageBackend, error) {
	switch cfg.Provider {
	case types.ImageProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		return &illustrate.OpenAIImageBackend{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.Model,
			Size:       cfg.Size,
			Quality:    cfg.Quality,
			Client:     &http.Client{Timeout: cfg.Timeout},
			MaxRetries: cfg.MaxRetries,
		}, nil
	case types.ImageProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		g, err := illustrate.NewGeminiImageBackend(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("creating image backend: %w", err)
		}
		return g, nil
	}
	return nil, nil
}

// renderer picks the pipeline's illustration renderer for mode and the
// limiter pacing it. Only calls that reach an image backend are paced.
func (b *Backends) renderer(mode types.IllustrationMode) (illustrate.Renderer, *rate.Limiter) {
	if mode == types.ModeHeuristic {
		return illustrate.HeuristicRenderer{}, nil
	}
	r := &illustrate.GenerativeRenderer{Style: illustrate.StyleDetailed}
	if b.Images == nil {
		return r, nil
	}
	r.Backend = b.Images
	return r, b.Limiter
}

// FromConfig wires an Orchestrator over b as cfg describes.
func FromConfig(cfg *types.Config, b *Backends, log *zap.Logger, inst instrument.Instrumenter) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	renderer, limiter := b.renderer(cfg.Image.Mode)
	stages := Stages{
		Web:         b.Web,
		Video:       b.Video,
		Analyzer:    aggregate.New(log.Named("aggregate"), inst),
		Generator:   generate.New(b.Text, log.Named("generate"), inst),
		Illustrator: illustrate.NewCoordinator(renderer, limiter, log.Named("illustrate"), inst),
	}
	return New(stages, Options{Defaults: cfg.Research, Log: log, Inst: inst})
}
