// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package illustrate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/deepdive/internal/httputil"
)

// openAIImagesURL is the OpenAI image generation endpoint. Package-level var
// for test substitution.
var openAIImagesURL = "https://api.openai.com/v1/images/generations"

const (
	DefaultOpenAIModel   = "dall-e-3"
	DefaultOpenAISize    = "1024x1024"
	DefaultOpenAIQuality = "standard"
)

// OpenAIImageBackend calls the OpenAI Images API.
type OpenAIImageBackend struct {
	APIKey     string
	Model      string
	Size       string
	Quality    string
	Client     *http.Client
	MaxRetries int
}

type openAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type openAIImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Synthesize requests one image for concept and returns its decoded bytes.
func (o *OpenAIImageBackend) Synthesize(ctx context.Context, concept string, style ImageStyle) ([]byte, error) {
	body, err := json.Marshal(openAIImageRequest{
		Model:          orDefault(o.Model, DefaultOpenAIModel),
		Prompt:         imagePrompt(concept, style),
		N:              1,
		Size:           orDefault(o.Size, DefaultOpenAISize),
		Quality:        orDefault(o.Quality, DefaultOpenAIQuality),
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIImagesURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := httputil.DoWithRetry(ctx, o.Client, req, o.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI images API: %w", err)
	}
	defer resp.Body.Close()

	var out openAIImageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 32<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("OpenAI images API returned HTTP %d: decoding response: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil {
			return nil, fmt.Errorf("OpenAI images API returned HTTP %d: %s", resp.StatusCode, out.Error.Message)
		}
		return nil, fmt.Errorf("OpenAI images API returned HTTP %d", resp.StatusCode)
	}
	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("OpenAI images API returned no image")
	}

	payload, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}
	return payload, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
