// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/deepdive/pkg/types"
)

// Simulated produces deterministic synthetic articles without touching the
// network. It stands in for a real provider when no search key is
// configured.
type Simulated struct{}

// Name returns the provider identifier.
func (Simulated) Name() string { return "simulated" }

// Search returns exactly max synthetic hits with their bodies filled in.
func (Simulated) Search(_ context.Context, query string, max int) ([]Hit, error) {
	hits := make([]Hit, 0, max)
	for i := range max {
		hits = append(hits, Hit{
			Title:   fmt.Sprintf("Article about %s - Result %d", query, i+1),
			URL:     fmt.Sprintf("https://example.com/article-%d", i+1),
			Snippet: strings.Repeat(fmt.Sprintf("This is a simulated snippet about %s. ", query), 3),
			Body:    simulatedBody(query, i),
		})
	}
	return hits, nil
}

func simulatedBody(query string, i int) string {
	return fmt.Sprintf("This simulated article number %d gives an overview of %s. "+
		"The main idea behind %s is easier to grasp with a few examples. "+
		"Researchers continue to debate how %s will develop over the coming years.",
		i+1, query, query, query)
}

const simulatedPublishedAt = "2024-01-01T00:00:00Z"

// simulatedVideos returns max synthetic videos. Their transcripts carry the
// unavailable placeholder because no real video exists behind them.
func simulatedVideos(query string, max int) []types.Video {
	videos := make([]types.Video, 0, max)
	for i := range max {
		id := fmt.Sprintf("sim_vid_%d", i)
		videos = append(videos, types.Video{
			ID:          id,
			Title:       fmt.Sprintf("Video about %s - Part %d", query, i+1),
			URL:         "https://youtube.com/watch?v=" + id,
			Channel:     fmt.Sprintf("Educational Channel %d", i+1),
			PublishedAt: simulatedPublishedAt,
			Description: fmt.Sprintf("This is a simulated video description about %s.", query),
			Thumbnail:   "https://via.placeholder.com/480x360",
			Transcript:  TranscriptUnavailable(id),
		})
	}
	return videos
}
