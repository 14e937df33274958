// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// selector matches an element by tag, class, or id.
type selector struct {
	tag   string
	class string
	id    string
}

// contentSelectors are tried in order; the first matching element supplies
// the page text.
var contentSelectors = []selector{
	{tag: "article"},
	{class: "content"},
	{class: "post-content"},
	{class: "entry-content"},
	{tag: "main"},
	{id: "content"},
}

// skippedTags never contribute text.
var skippedTags = map[string]bool{"script": true, "style": true, "noscript": true}

// ExtractText parses an HTML document and returns the text of its main
// content element, or of the whole body when no content element matches.
// Whitespace runs collapse to single spaces.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}
	for _, sel := range contentSelectors {
		if n := findFirst(doc, sel.matches); n != nil {
			if text := textContent(n); text != "" {
				return text, nil
			}
		}
	}
	if body := findFirst(doc, func(n *html.Node) bool { return n.Data == "body" }); body != nil {
		return textContent(body), nil
	}
	return textContent(doc), nil
}

func (s selector) matches(n *html.Node) bool {
	switch {
	case s.tag != "":
		return n.Data == s.tag
	case s.class != "":
		return hasClass(n, s.class)
	case s.id != "":
		return attr(n, "id") == s.id
	}
	return false
}

// findFirst returns the first element in document order satisfying match,
// ignoring skipped subtrees.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode {
		if skippedTags[n.Data] {
			return nil
		}
		if match(n) {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// textContent joins the text nodes under n with single spaces.
func textContent(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			parts = append(parts, strings.Fields(n.Data)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
