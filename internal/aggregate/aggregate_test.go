// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/deepdive/pkg/types"
)

// --- fixtures ---

func articles(prefix string, n int) []types.WebArticle {
	out := make([]types.WebArticle, n)
	for i := range out {
		out[i] = types.WebArticle{
			Title:    fmt.Sprintf("%s %d", prefix, i),
			URL:      fmt.Sprintf("https://%s.example.com/%d", prefix, i),
			Excerpt:  fmt.Sprintf("%s snippet %d", prefix, i),
			FullText: fmt.Sprintf("%s body %d", prefix, i),
		}
	}
	return out
}

func videos(n int) []types.Video {
	out := make([]types.Video, n)
	for i := range out {
		out[i] = types.Video{
			ID:         fmt.Sprintf("v%d", i),
			Title:      fmt.Sprintf("video %d", i),
			URL:        fmt.Sprintf("https://www.youtube.com/watch?v=v%d", i),
			Transcript: fmt.Sprintf("transcript %d", i),
		}
	}
	return out
}

// --- normalize ---

func TestNormalizeLaunchOrder(t *testing.T) {
	b := types.RawBundle{
		Web:    articles("web", 6),
		Videos: videos(3),
		Related: [][]types.WebArticle{
			articles("rel0", 2), articles("rel1", 2), articles("rel2", 2),
		},
	}

	items := Normalize(b)
	require.Len(t, items, 15)
	for i, item := range items {
		assert.Equal(t, i, item.Ordinal)
	}
	assert.Equal(t, types.SourceWeb, items[0].Kind)
	assert.Equal(t, types.SourceVideo, items[6].Kind)
	assert.Equal(t, "transcript 0...", items[6].Excerpt)
	assert.Equal(t, types.SourceRelatedWeb, items[9].Kind)
	assert.Equal(t, "rel0 0", items[9].Title)
	assert.Equal(t, "rel2 1", items[14].Title)
}

func TestVideoExcerptTruncates(t *testing.T) {
	got := videoExcerpt(strings.Repeat("é", 250))
	assert.Equal(t, strings.Repeat("é", 200)+"...", got)
}

// --- analyze ---

func TestAnalyzeEmptyBundle(t *testing.T) {
	a := New(nil, nil).Analyze(context.Background(), types.RawBundle{}, "How Neural Networks Work")

	assert.Equal(t, "How Neural Networks Work", a.Topic)
	assert.Equal(t, 0, a.TotalSources)
	assert.Equal(t, 0, a.TotalWordCount)
	assert.Equal(t, "Research on How Neural Networks Work reveals several key insights. ", a.Summary)
	assert.Empty(t, a.KeyPoints)
	assert.NotNil(t, a.KeyPoints)
	assert.Equal(t, types.ComplexityMedium, a.Complexity)
	assert.Equal(t, []string{"Historical context", "Applications", "Limitations"}, a.Gaps)
}

func TestAnalyzeCollectsAllText(t *testing.T) {
	b := types.RawBundle{
		Web: []types.WebArticle{{
			URL:      "https://arxiv.org/abs/1",
			FullText: "Rockets are an important part of space exploration programs.",
			Excerpt:  "rockets snippet",
		}},
		Videos: []types.Video{{Transcript: "rockets rockets rockets", Description: "launch video"}},
		Related: [][]types.WebArticle{{{FullText: "Rocket engines burn fuel", Excerpt: "engines"}}},
	}

	a := New(nil, nil).Analyze(context.Background(), b, "rockets")
	assert.Equal(t, 3, a.TotalSources)
	assert.Equal(t, []string{
		"Rockets are an important part of space exploration programs",
		"rockets snippet rockets rockets rockets launch video Rocket engines burn fuel engines",
	}, a.KeyPoints)
	assert.Equal(t, "rockets (rocket)", a.Themes[0])
	assert.True(t, a.SourceQuality.HasAcademic)
	assert.True(t, a.SourceQuality.HasVideo)
	assert.Equal(t, len(strings.Fields(CollectText(b))), a.TotalWordCount)
}

func TestAnalyzeRecoversFromPanic(t *testing.T) {
	old := analyzeBundle
	analyzeBundle = func(types.RawBundle, string) types.Analysis { panic("unexpected shape") }
	defer func() { analyzeBundle = old }()

	core, logs := observer.New(zapcore.WarnLevel)
	a := New(zap.New(core), nil).Analyze(context.Background(), types.RawBundle{}, "Quantum Computing")

	if diff := cmp.Diff(Fallback("Quantum Computing"), a); diff != "" {
		t.Errorf("Analyze() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Research analysis for Quantum Computing could not be completed.", a.Summary)
	assert.Equal(t, []string{"quantum computing"}, a.Themes)
	assert.Equal(t, 1, logs.Len())
}

// --- summary ---

func TestSummarize(t *testing.T) {
	s1 := "Rockets carry satellites into orbit around the planet earth"
	s3 := "Many rockets use liquid fuel for their main engines today"
	s5 := "Rockets were first used in ancient China for fireworks"
	text := strings.Join([]string{s1, "Short rockets", s3, "Cats are unrelated to this topic at all honestly", s5, "Rockets again and again and again forever"}, ". ")

	assert.Equal(t, s1+" "+s3+" "+s5, Summarize(text, "Rockets", nil))
}

func TestSummarizeFallbackAndTruncate(t *testing.T) {
	got := Summarize("nothing relevant here.", "Rockets", []string{"one", "two", "three"})
	assert.Equal(t, "Research on Rockets reveals several key insights. one two", got)

	long := strings.Repeat("rockets "+strings.Repeat("a", 190)+". ", 3)
	got = Summarize(long, "rockets", nil)
	assert.Equal(t, 503, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}

// --- quality and gaps ---

func TestAssessQuality(t *testing.T) {
	b := types.RawBundle{
		Web: []types.WebArticle{
			{URL: "https://cs.mit.edu/a", FullText: "abcd"},
			{URL: "https://example.com/b", FullText: "abcdef"},
			{URL: "https://example.com/c"},
		},
		Videos:  videos(1),
		Related: [][]types.WebArticle{articles("rel", 1)},
	}

	q := AssessQuality(b)
	assert.Equal(t, 5, q.SourceCount)
	assert.True(t, q.HasAcademic)
	assert.True(t, q.HasVideo)
	assert.Equal(t, 2, q.DistinctDomainCount)
	assert.InDelta(t, 10.0/3.0, q.MeanContentLength, 1e-9)
}

func TestGaps(t *testing.T) {
	tests := []struct {
		name      string
		keyPoints []string
		want      []string
	}{
		{
			name:      "covered categories skipped",
			keyPoints: []string{"The history of rockets", "Rockets have many applications"},
			want:      []string{"Limitations", "Future", "Comparison"},
		},
		{
			name:      "everything covered",
			keyPoints: []string{"history application problem future versus impact"},
			want:      nil,
		},
		{
			name:      "only impact missing",
			keyPoints: []string{"history application problem future versus"},
			want:      []string{"Impact"},
		},
		{
			name:      "no key points",
			keyPoints: nil,
			want:      []string{"Historical context", "Applications", "Limitations"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Gaps(tt.keyPoints)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Gaps() mismatch (-want +got):\n%s", diff)
			}
			seen := map[string]bool{}
			for _, g := range got {
				assert.False(t, seen[g], "repeated gap %q", g)
				seen[g] = true
			}
		})
	}
}
