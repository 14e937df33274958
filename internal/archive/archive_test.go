// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deepdive/pkg/types"
)

// openStore opens the archive in dir, skipping the test when the SQLite
// driver was built without FTS5 (build with -tags sqlite_fts5).
func openStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(types.ArchiveConfig{Dir: dir})
	if err != nil && strings.Contains(err.Error(), "no such module: fts5") {
		t.Skip("sqlite3 built without FTS5; run with -tags sqlite_fts5")
	}
	require.NoError(t, err)
	return s
}

func testStore(t *testing.T) *Store {
	t.Helper()
	s := openStore(t, t.TempDir())
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(id, topic, content string, at time.Time) *types.ResearchResult {
	return &types.ResearchResult{
		ID:          id,
		Topic:       topic,
		Style:       types.StyleHumorous,
		GeneratedAt: at,
		Content:     content,
		Illustrations: []types.Illustration{{
			Concept:     "c",
			Payload:     []byte{1, 2, 3},
			Description: "Stick figure cartoon illustrating: c",
			Method:      types.MethodHeuristicRender,
		}},
		AnalysisSummary: "summary of " + topic,
		Analysis:        types.Analysis{Topic: topic, Themes: []string{"learning"}},
		Sources: []types.SourceItem{
			{Kind: types.SourceWeb, Title: "A", URL: "https://example.com/a", Ordinal: 0},
			{Kind: types.SourceVideo, Title: "V", URL: "https://youtube.com/watch?v=1", Ordinal: 1},
		},
		Metrics: types.Metrics{WordCount: 4, SourceCount: 2, IllustrationCount: 1, ResearchDepth: 3},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	want := sampleResult("r1", "How Neural Networks Work", "Neurons fire in layers.", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	require.NoError(t, s.Save(ctx, want))
	got, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRejectsMissingID(t *testing.T) {
	s := testStore(t)
	assert.Error(t, s.Save(context.Background(), &types.ResearchResult{}))
	assert.Error(t, s.Save(context.Background(), nil))
}

func TestSaveReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, sampleResult("r1", "Go", "goroutines everywhere", at)))
	updated := sampleResult("r1", "Go", "channels everywhere", at)
	updated.Sources = updated.Sources[:1]
	require.NoError(t, s.Save(ctx, updated))

	got, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "channels everywhere", got.Content)

	hits, err := s.Search(ctx, "goroutines", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
	hits, err = s.Search(ctx, "channels", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	cites, err := s.BySourceURL(ctx, "https://youtube.com/watch?v=1", 10)
	require.NoError(t, err)
	assert.Empty(t, cites)
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, sampleResult(id, "topic "+id, "body", base.Add(time.Duration(i)*time.Hour))))
	}

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)
	assert.Equal(t, base.Add(2*time.Hour), entries[0].GeneratedAt)
	assert.Equal(t, 2, entries[0].SourceCount)

	entries, err = s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, sampleResult("nn", "Neural Networks", "Backpropagation adjusts weights.", at)))
	require.NoError(t, s.Save(ctx, sampleResult("db", "Databases", "Indexes speed up lookups.", at)))

	hits, err := s.Search(ctx, "backpropagation", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "nn", hits[0].ID)

	hits, err = s.Search(ctx, "databases", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "db", hits[0].ID)

	hits, err = s.Search(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestBySourceURL(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, sampleResult("r1", "one", "x", at)))
	require.NoError(t, s.Save(ctx, sampleResult("r2", "two", "y", at.Add(time.Minute))))

	hits, err := s.BySourceURL(ctx, "https://example.com/a", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "r2", hits[0].ID)
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, sampleResult("r1", "one", "first", at)))
	require.NoError(t, s.Save(ctx, sampleResult("r2", "two", "second", at.Add(time.Minute))))

	t.Run("json all", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.ExportJSON(ctx, &buf))
		var got []types.ResearchResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "r2", got[0].ID)
		assert.Equal(t, []byte{1, 2, 3}, got[0].Illustrations[0].Payload)
	})

	t.Run("yaml selected", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, s.ExportYAML(ctx, &buf, "r1"))
		assert.NotContains(t, buf.String(), "payload")

		var got []map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "one", got[0]["topic"])
		assert.Equal(t, "first", got[0]["content"])
	})

	t.Run("missing id", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorIs(t, s.ExportJSON(ctx, &buf, "ghost"), ErrNotFound)
	})
}

func TestReopenKeepsSchema(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)
	require.NoError(t, s.Save(context.Background(), sampleResult("r1", "t", "c", time.Now().UTC())))
	require.NoError(t, s.Close())

	s = openStore(t, dir)
	defer s.Close()
	_, err := s.Get(context.Background(), "r1")
	assert.NoError(t, err)
}
