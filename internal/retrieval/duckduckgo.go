// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// duckDuckGoURL is the DuckDuckGo HTML search endpoint. Declared as a var so
// tests can substitute an httptest server.
var duckDuckGoURL = "https://html.duckduckgo.com/html/"

const duckDuckGoRedirect = "//duckduckgo.com/l/?uddg="

// DuckDuckGo scrapes the DuckDuckGo HTML interface. It needs no API key.
type DuckDuckGo struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the provider identifier.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search returns up to max results for query.
func (d *DuckDuckGo) Search(ctx context.Context, query string, max int) ([]Hit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, duckDuckGoURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: creating request: %w", err)
	}
	ua := d.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo: HTTP %d", resp.StatusCode)
	}
	return parseDuckDuckGo(io.LimitReader(resp.Body, 1<<20), max)
}

// parseDuckDuckGo extracts result links and snippets from a results page.
func parseDuckDuckGo(r io.Reader, max int) ([]Hit, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parsing HTML: %w", err)
	}

	var hits []Hit
	var find func(*html.Node)
	find = func(n *html.Node) {
		if len(hits) >= max {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "result") {
			if h := duckDuckGoHit(n); h.URL != "" && h.Title != "" {
				hits = append(hits, h)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	return hits, nil
}

func duckDuckGoHit(n *html.Node) Hit {
	var h Hit
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				h.URL = attr(n, "href")
				h.Title = textContent(n)
			case hasClass(n, "result__snippet"):
				h.Snippet = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	h.URL = unwrapRedirect(h.URL)
	return h
}

// unwrapRedirect replaces a DuckDuckGo redirect link with its target.
func unwrapRedirect(link string) string {
	if !strings.HasPrefix(link, duckDuckGoRedirect) {
		return link
	}
	decoded, err := url.QueryUnescape(strings.TrimPrefix(link, duckDuckGoRedirect))
	if err != nil {
		return link
	}
	if i := strings.Index(decoded, "&"); i > 0 {
		decoded = decoded[:i]
	}
	return decoded
}
