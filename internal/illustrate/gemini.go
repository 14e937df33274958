// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package illustrate

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultImagenModel is used when no Imagen model is configured.
const DefaultImagenModel = "imagen-4.0-generate-001"

// GeminiImageBackend generates images with Imagen through the genai SDK.
type GeminiImageBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiImageBackend creates an Imagen image backend.
func NewGeminiImageBackend(ctx context.Context, apiKey, model string) (*GeminiImageBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating GenAI client: %w", err)
	}
	return &GeminiImageBackend{client: client, model: orDefault(model, DefaultImagenModel)}, nil
}

// Synthesize requests one PNG image for concept.
func (g *GeminiImageBackend) Synthesize(ctx context.Context, concept string, style ImageStyle) ([]byte, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.model, imagePrompt(concept, style), &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return nil, fmt.Errorf("calling Imagen: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("Imagen returned no image")
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}
