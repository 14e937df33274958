// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/deepdive/internal/textanalysis"
	"github.com/pdiddy/deepdive/pkg/types"
)

// AssessQuality scores source breadth. Academic markers, domains and
// content length consider primary web results only.
func AssessQuality(b types.RawBundle) types.SourceQuality {
	q := types.SourceQuality{
		SourceCount: b.SourceCount(),
		HasVideo:    len(b.Videos) > 0,
	}

	domains := make(map[string]bool)
	total := 0
	for _, a := range b.Web {
		if textanalysis.IsAcademic(a.URL) {
			q.HasAcademic = true
		}
		if d := textanalysis.Domain(a.URL); d != "" && d != "unknown" {
			domains[d] = true
		}
		total += utf8.RuneCountInString(a.FullText)
	}
	q.DistinctDomainCount = len(domains)
	q.MeanContentLength = float64(total) / float64(max(len(b.Web), 1))
	return q
}

const (
	summaryScanSentences = 20
	summaryMinSentence   = 30
	summaryMaxSentences  = 3
	summaryMinLen        = 100
	summaryMaxLen        = 500
)

// Summarize builds an extractive summary from the first 20 sentences of
// text, keeping up to three longer than 30 characters that share a word
// with topic. A summary shorter than 100 characters is replaced with a
// templated sentence followed by the first two key points, and anything
// longer than 500 characters is cut with an ellipsis.
func Summarize(text, topic string, keyPoints []string) string {
	tokens := textanalysis.TopicTokens(topic)
	sentences := textanalysis.SplitSentences(text)
	if len(sentences) > summaryScanSentences {
		sentences = sentences[:summaryScanSentences]
	}

	var picked []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) <= summaryMinSentence || !textanalysis.SharesToken(s, tokens) {
			continue
		}
		picked = append(picked, s)
		if len(picked) == summaryMaxSentences {
			break
		}
	}

	summary := strings.Join(picked, " ")
	if utf8.RuneCountInString(summary) < summaryMinLen {
		summary = fmt.Sprintf("Research on %s reveals several key insights. ", topic) +
			strings.Join(keyPoints[:min(len(keyPoints), 2)], " ")
	}
	if r := []rune(summary); len(r) > summaryMaxLen {
		summary = string(r[:summaryMaxLen]) + "..."
	}
	return summary
}

const maxGaps = 3

// gapCategories are checked in order against the joined key points.
var gapCategories = []struct {
	name     string
	keywords []string
}{
	{"Historical context", []string{"history", "historical", "development", "origin", "invented"}},
	{"Applications", []string{"application", "use", "example", "implementation", "practical"}},
	{"Limitations", []string{"limitation", "problem", "issue", "disadvantage", "criticism"}},
	{"Future", []string{"future", "trend", "development", "next", "upcoming"}},
	{"Comparison", []string{"vs", "versus", "compared", "alternative", "different"}},
	{"Impact", []string{"impact", "effect", "influence", "economic", "social"}},
}

// Gaps returns, in fixed category order, up to three categories none of
// whose keywords appear in the key points.
func Gaps(keyPoints []string) []string {
	joined := strings.ToLower(strings.Join(keyPoints, " "))
	var gaps []string
	for _, c := range gapCategories {
		covered := false
		for _, kw := range c.keywords {
			if strings.Contains(joined, kw) {
				covered = true
				break
			}
		}
		if !covered {
			gaps = append(gaps, c.name)
			if len(gaps) == maxGaps {
				break
			}
		}
	}
	return gaps
}
