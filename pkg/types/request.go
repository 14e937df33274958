// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the deepdive pipeline:
// the research request, normalized sources, the aggregated analysis, the
// content outline, illustrations, and the terminal research result.
package types

// Style selects the voice of the generated post.
type Style string

const (
	StyleHumorous  Style = "humorous"
	StyleTechnical Style = "technical"
	StyleBalanced  Style = "balanced"
)

// Styles lists every accepted Style in display order.
var Styles = []Style{StyleHumorous, StyleTechnical, StyleBalanced}

const (
	// DefaultDepth is used when a request leaves Depth unset.
	DefaultDepth = 3

	// MaxDepth is the largest accepted research depth.
	MaxDepth = 5
)

// ResearchRequest is one accepted unit of work for the pipeline. Depth
// controls the fan-out breadth of the gather phase.
type ResearchRequest struct {
	// Topic is the subject to research.
	Topic string `json:"topic" yaml:"topic" validate:"required"`

	// Depth is the research depth in [1, MaxDepth].
	Depth int `json:"depth" yaml:"depth" validate:"min=1,max=5"`

	// Style is the voice of the generated post.
	Style Style `json:"style" yaml:"style" validate:"oneof=humorous technical balanced"`

	// IncludeIllustrations requests generated illustrations for the post.
	IncludeIllustrations bool `json:"include_illustrations" yaml:"include_illustrations"`
}

// WebCap is the primary web-result cap derived from depth: min(2*depth, 10).
func WebCap(depth int) int {
	return min(2*depth, 10)
}

// VideoCap is the video-result cap derived from depth: min(depth, 5).
func VideoCap(depth int) int {
	return min(depth, 5)
}
