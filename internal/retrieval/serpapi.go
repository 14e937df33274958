// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/deepdive/internal/httputil"
)

// serpAPIURL is the SerpAPI search endpoint. Declared as a var so tests can
// substitute an httptest server.
var serpAPIURL = "https://serpapi.com/search"

// SerpAPI searches Google through SerpAPI.
type SerpAPI struct {
	APIKey     string
	Client     *http.Client
	MaxRetries int
}

// Name returns the provider identifier.
func (s *SerpAPI) Name() string { return "serpapi" }

type serpResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// Search returns up to max organic results for query.
func (s *SerpAPI) Search(ctx context.Context, query string, max int) ([]Hit, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("serpapi: no API key configured")
	}
	params := url.Values{
		"q":       {query},
		"api_key": {s.APIKey},
		"engine":  {"google"},
		"num":     {strconv.Itoa(max)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serpAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, s.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("serpapi: HTTP %d: %s", resp.StatusCode, body)
	}

	var sr serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("serpapi: decoding response: %w", err)
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("serpapi: %s", sr.Error)
	}

	hits := make([]Hit, 0, len(sr.OrganicResults))
	for _, r := range sr.OrganicResults {
		if len(hits) >= max {
			break
		}
		hits = append(hits, Hit{Title: r.Title, URL: r.Link, Snippet: r.Snippet})
	}
	return hits, nil
}
