// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package illustrate

import (
	"context"
	"fmt"

	"github.com/pdiddy/deepdive/pkg/types"
)

// ImageStyle selects the renderer used by the diagnostic Tool.
type ImageStyle string

const (
	StyleSimple   ImageStyle = "simple"
	StyleDetailed ImageStyle = "detailed"
)

// Renderer produces one Illustration for a concept.
type Renderer interface {
	Render(ctx context.Context, concept string) (types.Illustration, error)
}

// ImageBackend abstracts a generative image API. It returns PNG bytes.
type ImageBackend interface {
	Synthesize(ctx context.Context, concept string, style ImageStyle) ([]byte, error)
}

// Description is the caption attached to a rendered Illustration.
func Description(concept string) string {
	return "Stick figure cartoon illustrating: " + concept
}

// imagePrompt is the text sent to generative image backends.
func imagePrompt(concept string, style ImageStyle) string {
	detail := "Simple black line drawing on a white background, round-headed stick figures, thought bubbles, minimal text."
	if style == StyleDetailed {
		detail = "Hand-drawn explainer style with round-headed stick figures, thought bubbles and a few labeled objects, black lines on white with at most one accent color."
	}
	return fmt.Sprintf("A stick figure cartoon illustrating: %s. %s Educational but humorous.", concept, detail)
}

// GenerativeRenderer renders through an ImageBackend. Backend errors are
// returned unchanged so the caller decides whether to drop or substitute.
type GenerativeRenderer struct {
	Backend ImageBackend
	Style   ImageStyle
}

func (g *GenerativeRenderer) Render(ctx context.Context, concept string) (types.Illustration, error) {
	if g.Backend == nil {
		return types.Illustration{}, fmt.Errorf("no image backend configured")
	}
	style := g.Style
	if style == "" {
		style = StyleDetailed
	}
	payload, err := g.Backend.Synthesize(ctx, concept, style)
	if err != nil {
		return types.Illustration{}, err
	}
	if len(payload) == 0 {
		return types.Illustration{}, fmt.Errorf("image backend returned an empty payload")
	}
	return types.Illustration{
		Concept:     concept,
		Payload:     payload,
		Description: Description(concept),
		Method:      types.MethodGenerativeModel,
	}, nil
}
