// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deepdive/internal/archive"
	"github.com/pdiddy/deepdive/pkg/types"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"How Neural Networks Work", "how-neural-networks-work"},
		{"  C++ & Rust!  ", "c-rust"},
		{"???", "illustration"},
		{"Visual explanation of a very long topic name that keeps going", "visual-explanation-of-a-very-long-topic"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, slug(tc.in), tc.in)
	}
}

func TestWriteIllustrations(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	paths, err := writeIllustrations(dir, "0123456789abcdef", []types.Illustration{
		{Concept: "Recursion", Payload: []byte("a")},
		{Concept: "Base case", Payload: []byte("b")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "01234567-01-recursion.png"),
		filepath.Join(dir, "01234567-02-base-case.png"),
	}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))

	paths, err = writeIllustrations(dir, "x", nil)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFormatArticles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatArticles(&buf, "simulated", []types.WebArticle{
		{Title: "Go", URL: "https://go.dev", WordCount: 12, Excerpt: "fast"},
	}))
	assert.Contains(t, buf.String(), "1 article(s) from simulated")
	assert.Contains(t, buf.String(), "1. Go\n   https://go.dev\n   12 words\n   fast\n")

	buf.Reset()
	require.NoError(t, formatArticles(&buf, "simulated", nil))
	assert.Equal(t, "No articles found.\n", buf.String())
}

func TestWriteEntryTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEntryTable(&buf, []archive.Entry{{
		ID:          "r1",
		Topic:       "Neural Networks",
		Style:       types.StyleTechnical,
		GeneratedAt: time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
		WordCount:   900,
		SourceCount: 15,
	}}))
	assert.Contains(t, buf.String(), "2026-05-06 07:08:09")
	assert.Contains(t, buf.String(), "Neural Networks")
	assert.Contains(t, buf.String(), "technical")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
