// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Section is one outline entry of a ContentStructure.
type Section struct {
	Header  string `json:"header" yaml:"header"`
	Outline string `json:"outline" yaml:"outline"`
}

// ContentStructure is the outline that drives final synthesis.
type ContentStructure struct {
	Title    string    `json:"title" yaml:"title"`
	Subtitle string    `json:"subtitle" yaml:"subtitle"`
	Sections []Section `json:"sections" yaml:"sections"`

	// IllustrationConcepts always holds at least three entries.
	IllustrationConcepts []string `json:"illustration_concepts" yaml:"illustration_concepts"`

	OpeningHook     string `json:"opening_hook" yaml:"opening_hook"`
	ClosingThoughts string `json:"closing_thoughts" yaml:"closing_thoughts"`

	// Fallback is true when the structure came from the fixed skeleton.
	Fallback bool `json:"fallback" yaml:"fallback"`
}

// GenerationMethod records how an Illustration payload was produced.
type GenerationMethod string

const (
	MethodHeuristicRender GenerationMethod = "heuristic_render"
	MethodGenerativeModel GenerationMethod = "generative_model"
	MethodPlaceholder     GenerationMethod = "placeholder"
)

// Illustration is one generated image for a concept.
type Illustration struct {
	Concept string `json:"concept" yaml:"concept"`

	// Payload is the encoded PNG image. JSON carries it as base64.
	Payload []byte `json:"payload" yaml:"-"`

	Description string           `json:"description" yaml:"description"`
	Method      GenerationMethod `json:"generation_method" yaml:"generation_method"`

	// Error holds the backend failure that forced a placeholder, if any.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Metrics are derived counters attached to a ResearchResult.
type Metrics struct {
	WordCount         int   `json:"word_count" yaml:"word_count"`
	SourceCount       int   `json:"source_count" yaml:"source_count"`
	IllustrationCount int   `json:"illustration_count" yaml:"illustration_count"`
	ResearchDepth     int   `json:"research_depth" yaml:"research_depth"`
	FailedSources     int   `json:"failed_sources" yaml:"failed_sources"`
	DurationMS        int64 `json:"duration_ms" yaml:"duration_ms"`
}

// ResearchResult is the terminal artifact of one pipeline run.
type ResearchResult struct {
	ID              string         `json:"id" yaml:"id"`
	Topic           string         `json:"topic" yaml:"topic"`
	Style           Style          `json:"style" yaml:"style"`
	GeneratedAt     time.Time      `json:"generated_at" yaml:"generated_at"`
	Content         string         `json:"content" yaml:"content"`
	Illustrations   []Illustration `json:"illustrations" yaml:"illustrations"`
	AnalysisSummary string         `json:"analysis_summary" yaml:"analysis_summary"`
	Analysis        Analysis       `json:"analysis" yaml:"analysis"`
	Sources         []SourceItem   `json:"sources" yaml:"sources"`
	Metrics         Metrics        `json:"metrics" yaml:"metrics"`
}
