// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval implements the web and video source backends the
// pipeline gathers from. Backends absorb their own failures: a search or
// fetch error is logged and yields fewer results, never an error.
package retrieval

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/deepdive/internal/httputil"
	"github.com/pdiddy/deepdive/internal/instrument"
	"github.com/pdiddy/deepdive/pkg/types"
)

// DefaultContentLimit caps the characters kept from an extracted page.
const DefaultContentLimit = 2000

// DefaultUserAgent identifies page fetches when none is configured.
const DefaultUserAgent = "Mozilla/5.0 (compatible; deepdive/1.0)"

// maxPageBytes bounds how much of a page body is read.
const maxPageBytes = 2 << 20

// WebBackend turns a query into extracted articles.
type WebBackend interface {
	SearchAndExtract(ctx context.Context, query string, max int) ([]types.WebArticle, error)
}

// VideoBackend turns a query into videos with transcripts.
type VideoBackend interface {
	SearchAndTranscribe(ctx context.Context, query string, max int) ([]types.Video, error)
}

// Hit is one search engine result before its page is fetched. Body is set
// only by providers that already hold the article text.
type Hit struct {
	Title   string
	URL     string
	Snippet string
	Body    string
}

// Searcher is a single web search provider.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, max int) ([]Hit, error)
}

// Web searches with one provider and extracts the content of every hit.
type Web struct {
	searcher  Searcher
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	limit     int
	retries   int
	log       *zap.Logger
	inst      instrument.Instrumenter
}

// NewWeb builds the web backend selected by cfg. The auto provider uses
// SerpAPI when a key is configured and simulated results otherwise.
func NewWeb(cfg types.WebConfig, log *zap.Logger, inst instrument.Instrumenter) *Web {
	if log == nil {
		log = zap.NewNop()
	}
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout <= 0 {
		client.Timeout = 10 * time.Second
	}
	w := &Web{
		searcher:  newSearcher(cfg, client),
		client:    client,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		userAgent: cfg.UserAgent,
		limit:     cfg.ContentLimit,
		retries:   cfg.MaxRetries,
		log:       log,
		inst:      instrument.OrNop(inst),
	}
	if cfg.FetchRate > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(cfg.FetchRate), 1)
	}
	if w.userAgent == "" {
		w.userAgent = DefaultUserAgent
	}
	if w.limit <= 0 {
		w.limit = DefaultContentLimit
	}
	return w
}

func newSearcher(cfg types.WebConfig, client *http.Client) Searcher {
	switch cfg.Provider {
	case types.WebProviderSerpAPI:
		return &SerpAPI{APIKey: cfg.SerpAPIKey, Client: client, MaxRetries: cfg.MaxRetries}
	case types.WebProviderDuckDuckGo:
		return &DuckDuckGo{Client: client, UserAgent: cfg.UserAgent}
	case types.WebProviderSimulated:
		return Simulated{}
	}
	if cfg.SerpAPIKey != "" {
		return &SerpAPI{APIKey: cfg.SerpAPIKey, Client: client, MaxRetries: cfg.MaxRetries}
	}
	return Simulated{}
}

// Provider names the search provider in use.
func (w *Web) Provider() string { return w.searcher.Name() }

// SearchAndExtract searches for query and returns up to max articles whose
// page content could be extracted. Hits whose page cannot be fetched or
// yields no text are skipped. Search failures produce an empty list.
func (w *Web) SearchAndExtract(ctx context.Context, query string, max int) ([]types.WebArticle, error) {
	ctx = w.inst.Start(ctx, instrument.StageRetrieve)
	defer w.inst.End(ctx, instrument.StageRetrieve)

	if max <= 0 {
		return []types.WebArticle{}, nil
	}
	hits, err := w.searcher.Search(ctx, query, max)
	if err != nil {
		w.inst.Error(ctx, instrument.StageRetrieve, err)
		w.log.Warn("web search failed",
			zap.String("source", w.searcher.Name()), zap.String("query", query), zap.Error(err))
		return []types.WebArticle{}, nil
	}
	if len(hits) > max {
		hits = hits[:max]
	}

	articles := make([]types.WebArticle, 0, len(hits))
	for _, h := range hits {
		text := h.Body
		if text == "" {
			text, err = w.fetch(ctx, h.URL)
			if err != nil {
				w.log.Warn("page extraction failed",
					zap.String("source", w.searcher.Name()), zap.String("url", h.URL), zap.Error(err))
				continue
			}
		}
		if text == "" {
			continue
		}
		articles = append(articles, types.WebArticle{
			Title:     h.Title,
			URL:       h.URL,
			Excerpt:   h.Snippet,
			FullText:  truncate(text, w.limit),
			WordCount: len(strings.Fields(text)),
		})
	}
	w.log.Debug("web search complete",
		zap.String("source", w.searcher.Name()), zap.String("query", query),
		zap.Int("hits", len(hits)), zap.Int("articles", len(articles)))
	return articles, nil
}

// fetch downloads rawURL and extracts its main text.
func (w *Web) fetch(ctx context.Context, rawURL string) (string, error) {
	if err := w.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for fetch rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := httputil.DoWithRetry(ctx, w.client, req, w.retries)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching page: HTTP %d", resp.StatusCode)
	}
	return ExtractText(io.LimitReader(resp.Body, maxPageBytes))
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
