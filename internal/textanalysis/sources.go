// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textanalysis

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	timestampPattern    = regexp.MustCompile(`\d+:\d+`)
	speakerLabelPattern = regexp.MustCompile(`(?m)^[A-Z\s]+:`)
	doubleQuotePattern  = regexp.MustCompile(`"([^"]*)"`)
	singleQuotePattern  = regexp.MustCompile(`'([^']*)'`)
)

var transcriptArtifacts = []string{"[Music]", "[Applause]", "[Laughter]", "(inaudible)", "(crosstalk)"}

// CleanTranscript strips timestamps, upper-case speaker labels and common
// caption artifacts from a transcript and collapses whitespace.
func CleanTranscript(transcript string) string {
	transcript = timestampPattern.ReplaceAllString(transcript, "")
	transcript = speakerLabelPattern.ReplaceAllString(transcript, "")
	for _, a := range transcriptArtifacts {
		transcript = strings.ReplaceAll(transcript, a, "")
	}
	return strings.Join(strings.Fields(transcript), " ")
}

const (
	minQuoteWords = 6
	maxQuotes     = 5
)

// ExtractQuotes returns up to five quoted passages of more than five words.
// Double-quoted passages come before single-quoted ones.
func ExtractQuotes(text string) []string {
	var quotes []string
	for _, p := range []*regexp.Regexp{doubleQuotePattern, singleQuotePattern} {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			if len(strings.Fields(m[1])) >= minQuoteWords {
				quotes = append(quotes, m[1])
			}
		}
	}
	if len(quotes) > maxQuotes {
		quotes = quotes[:maxQuotes]
	}
	return quotes
}

// Domain returns the authority component of rawURL, or "unknown" when it
// cannot be parsed.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	return u.Host
}

// academicMarkers identify scholarly hosts inside a URL.
var academicMarkers = []string{".edu", "scholar.", "arxiv.", "pubmed"}

// IsAcademic reports whether rawURL contains an academic host marker.
func IsAcademic(rawURL string) bool {
	return containsAny(strings.ToLower(rawURL), academicMarkers)
}
