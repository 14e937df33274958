// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceKind tags a SourceItem with the retrieval call that produced it.
type SourceKind string

const (
	SourceWeb        SourceKind = "web"
	SourceVideo      SourceKind = "video"
	SourceRelatedWeb SourceKind = "related_web"
)

// SourceItem is a normalized reference to one piece of gathered material.
type SourceItem struct {
	// Kind identifies the originating retrieval call.
	Kind SourceKind `json:"kind" yaml:"kind"`

	// Title is the article or video title.
	Title string `json:"title" yaml:"title"`

	// URL is the canonical link to the source.
	URL string `json:"url" yaml:"url"`

	// Excerpt is a short preview of the source content.
	Excerpt string `json:"excerpt" yaml:"excerpt"`

	// Ordinal is the position of the source in launch order, starting at 0.
	Ordinal int `json:"ordinal" yaml:"ordinal"`
}

// WebArticle is one result returned by a web retrieval backend.
type WebArticle struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`

	// Excerpt is the search-engine snippet for the result.
	Excerpt string `json:"excerpt" yaml:"excerpt"`

	// FullText is the extracted page body, possibly truncated.
	FullText string `json:"full_text" yaml:"full_text"`

	// WordCount counts words in the page body before truncation.
	WordCount int `json:"word_count" yaml:"word_count"`
}

// Video is one result returned by a video retrieval backend.
type Video struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url" yaml:"url"`
	Channel     string `json:"channel" yaml:"channel"`
	PublishedAt string `json:"published_at" yaml:"published_at"`
	Description string `json:"description" yaml:"description"`
	Thumbnail   string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`

	// Transcript is the cleaned transcript text, or a placeholder string when
	// none could be fetched.
	Transcript string `json:"transcript" yaml:"transcript"`
}

// SourceFailure records one gather-phase call that errored or panicked.
type SourceFailure struct {
	Kind  SourceKind `json:"kind" yaml:"kind"`
	Query string     `json:"query" yaml:"query"`
	Error string     `json:"error" yaml:"error"`
}

// RawBundle holds the outputs of one gather phase before normalization.
// Related is indexed in the order the related queries were generated.
type RawBundle struct {
	Web            []WebArticle    `json:"web" yaml:"web"`
	Videos         []Video         `json:"videos" yaml:"videos"`
	RelatedQueries []string        `json:"related_queries" yaml:"related_queries"`
	Related        [][]WebArticle  `json:"related" yaml:"related"`
	Failures       []SourceFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// SourceCount returns the number of gathered items across all calls.
func (b RawBundle) SourceCount() int {
	n := len(b.Web) + len(b.Videos)
	for _, set := range b.Related {
		n += len(set)
	}
	return n
}
