// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"strings"

	"github.com/pdiddy/deepdive/pkg/types"
)

const paragraphSep = "\n\n"

// Marker is the placement marker for the illustration at index i.
func Marker(i int, concept string) string {
	return fmt.Sprintf("[CARTOON %d: %s]", i+1, concept)
}

// InsertMarkers places one marker per illustration at paragraph boundaries.
// Marker i goes after paragraph i+1 (zero-based), clamped to the last
// paragraph, so illustrations spread through the document.
func InsertMarkers(content string, illustrations []types.Illustration) string {
	if len(illustrations) == 0 {
		return content
	}

	paragraphs := strings.Split(content, paragraphSep)
	last := len(paragraphs) - 1
	after := make([][]string, len(paragraphs))
	for i, ill := range illustrations {
		at := min(i+1, last)
		after[at] = append(after[at], Marker(i, ill.Concept))
	}

	out := make([]string, 0, len(paragraphs)+len(illustrations))
	for i, p := range paragraphs {
		out = append(out, p)
		out = append(out, after[i]...)
	}
	return strings.Join(out, paragraphSep)
}

type fallbackPost struct {
	Structure types.ContentStructure
	Analysis  types.Analysis
	Hook      string
	Summary   string
	Closing   string
	KeyPoints []string
}

// FallbackPost renders the fixed post template from structure and analysis.
// Output depends only on its inputs.
func FallbackPost(structure types.ContentStructure, analysis types.Analysis) string {
	data := fallbackPost{
		Structure: structure,
		Analysis:  analysis,
		Hook:      structure.OpeningHook,
		Summary:   analysis.Summary,
		Closing:   structure.ClosingThoughts,
		KeyPoints: analysis.KeyPoints[:min(len(analysis.KeyPoints), 3)],
	}
	if data.Hook == "" {
		data.Hook = "Let me tell you a story..."
	}
	if data.Summary == "" {
		data.Summary = "This is a fascinating topic that deserves deeper exploration."
	}
	if data.Closing == "" {
		data.Closing = fmt.Sprintf("And that's the story of %s. Pretty wild, right?", analysis.Topic)
	}

	out, err := render(fallbackPostTmpl, data)
	if err != nil {
		// The template is parsed at init and only reads plain fields.
		panic(fmt.Sprintf("rendering fallback post: %v", err))
	}
	return out
}
