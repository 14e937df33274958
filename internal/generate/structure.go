// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"strings"

	"github.com/pdiddy/deepdive/pkg/types"
)

// MinConcepts is the minimum number of illustration concepts in a structure.
const MinConcepts = 3

// linePrefixes maps recognized outline prefixes to the field they fill.
var linePrefixes = []struct {
	prefix string
	apply  func(s *types.ContentStructure, value string)
}{
	{"title:", func(s *types.ContentStructure, v string) { s.Title = v }},
	{"subtitle:", func(s *types.ContentStructure, v string) { s.Subtitle = v }},
	{"cartoon:", func(s *types.ContentStructure, v string) {
		if v != "" {
			s.IllustrationConcepts = append(s.IllustrationConcepts, v)
		}
	}},
	{"hook:", func(s *types.ContentStructure, v string) { s.OpeningHook = v }},
	{"closing:", func(s *types.ContentStructure, v string) { s.ClosingThoughts = v }},
}

// ParseStructure scans a backend response line by line. Recognized prefixes
// are matched case-insensitively. A line starting with '#' or "Section"
// opens a new section and any other line is appended to the current
// section's outline. The second return value is false when nothing in the
// response was recognized.
func ParseStructure(response, topic string) (types.ContentStructure, bool) {
	s := types.ContentStructure{
		Title:    "The Ultimate Guide to " + topic,
		Subtitle: "A Deep Dive That Will Change How You Think",
	}
	recognized := false
	var current *types.Section
	var outline strings.Builder

	flush := func() {
		if current != nil {
			current.Outline = strings.TrimSpace(outline.String())
			s.Sections = append(s.Sections, *current)
			current = nil
			outline.Reset()
		}
	}

lines:
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		for _, p := range linePrefixes {
			if strings.HasPrefix(lower, p.prefix) {
				p.apply(&s, strings.TrimSpace(line[len(p.prefix):]))
				recognized = true
				continue lines
			}
		}

		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "Section") {
			flush()
			current = &types.Section{Header: strings.Trim(line, "# ")}
			recognized = true
			continue
		}

		if current != nil {
			outline.WriteString(line)
			outline.WriteByte(' ')
		}
	}
	flush()

	s.IllustrationConcepts = PadConcepts(s.IllustrationConcepts, topic)
	return s, recognized
}

// PadConcepts appends fixed topic-derived concepts until there are at
// least MinConcepts.
func PadConcepts(concepts []string, topic string) []string {
	pads := []string{
		"Visual explanation of " + topic,
		"Common misconceptions about " + topic,
		"Future implications of " + topic,
	}
	for i := 0; len(concepts) < MinConcepts && i < len(pads); i++ {
		concepts = append(concepts, pads[i])
	}
	return concepts
}

// FallbackStructure is the fixed outline used when the structuring call
// fails or returns nothing recognizable.
func FallbackStructure(topic string) types.ContentStructure {
	return types.ContentStructure{
		Title:    fmt.Sprintf("Understanding %s: A Deep Dive", topic),
		Subtitle: "Breaking Down Complex Concepts with Stick Figures and Analogies",
		Sections: []types.Section{
			{Header: "What Even Is This Thing?", Outline: "Basic introduction"},
			{Header: "Why Should You Care?", Outline: "Importance and relevance"},
			{Header: "How It Actually Works", Outline: "Technical details simplified"},
			{Header: "Common Misconceptions", Outline: "What people get wrong"},
			{Header: "The Bigger Picture", Outline: "Implications and future"},
		},
		IllustrationConcepts: []string{
			fmt.Sprintf("What %s looks like to beginners", topic),
			fmt.Sprintf("How %s actually works", topic),
			fmt.Sprintf("The future of %s", topic),
		},
		OpeningHook:     fmt.Sprintf("So you want to understand %s...", topic),
		ClosingThoughts: "And that's the story of how everything connects.",
		Fallback:        true,
	}
}
