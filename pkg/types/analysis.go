// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Complexity rates how demanding the gathered material is.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Category is the coarse genre of the gathered material.
type Category string

const (
	CategoryResearch Category = "research"
	CategoryTutorial Category = "tutorial"
	CategoryOpinion  Category = "opinion"
	CategoryNews     Category = "news"
	CategoryGeneral  Category = "general"
)

// SourceQuality summarizes the breadth and authority of gathered sources.
type SourceQuality struct {
	// SourceCount is the total number of gathered items.
	SourceCount int `json:"source_count" yaml:"source_count"`

	// HasAcademic is true when a primary web URL carries an academic marker.
	HasAcademic bool `json:"has_academic" yaml:"has_academic"`

	// HasVideo is true when at least one video was gathered.
	HasVideo bool `json:"has_video" yaml:"has_video"`

	// DistinctDomainCount counts unique hosts across primary web URLs.
	DistinctDomainCount int `json:"distinct_domain_count" yaml:"distinct_domain_count"`

	// MeanContentLength is the mean extracted body length of primary web articles.
	MeanContentLength float64 `json:"mean_content_length" yaml:"mean_content_length"`
}

// Analysis is the aggregated, heuristic view of everything gathered for a topic.
type Analysis struct {
	Topic          string        `json:"topic" yaml:"topic"`
	Summary        string        `json:"summary" yaml:"summary"`
	KeyPoints      []string      `json:"key_points" yaml:"key_points"`
	Themes         []string      `json:"themes" yaml:"themes"`
	Complexity     Complexity    `json:"complexity" yaml:"complexity"`
	Category       Category      `json:"category" yaml:"category"`
	SourceQuality  SourceQuality `json:"source_quality" yaml:"source_quality"`
	Gaps           []string      `json:"gaps" yaml:"gaps"`
	TotalSources   int           `json:"total_sources" yaml:"total_sources"`
	TotalWordCount int           `json:"total_word_count" yaml:"total_word_count"`
}
