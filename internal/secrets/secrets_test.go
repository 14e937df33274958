// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Store
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, YouTubeKey, "  yt_abc123  \n")
				writeFile(t, dir, SerpAPIKey, "serp_xyz789")
				writeFile(t, dir, OpenAIKey, "sk-open\n")
				return dir
			},
			want: Store{
				YouTubeKey: "yt_abc123",
				SerpAPIKey: "serp_xyz789",
				OpenAIKey:  "sk-open",
			},
		},
		{
			name: "returns empty store for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Store{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AnthropicKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Store{AnthropicKey: "valid-key"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, GeminiKey, "g_real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Store{GeminiKey: "g_real"},
		},
		{
			name: "returns empty store for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: Store{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	core, logs := observer.New(zapcore.WarnLevel)
	got, err := Load(dir, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	assert.NotContains(t, got, "bad-key")
	assert.Equal(t, 1, logs.FilterMessage("could not read secret").Len())
}

func TestResolveFallsBackToEnv(t *testing.T) {
	t.Setenv("SERP_API_KEY", " from-env ")
	t.Setenv("YOUTUBE_API_KEY", "env-yt")

	s := Store{YouTubeKey: "from-file"}
	assert.Equal(t, "from-file", s.Resolve(YouTubeKey))
	assert.Equal(t, "from-env", s.Resolve(SerpAPIKey))
	assert.Empty(t, s.Resolve("unknown-key"))
}

func TestNames(t *testing.T) {
	s := Store{SerpAPIKey: "a", AnthropicKey: "b"}
	assert.Equal(t, []string{AnthropicKey, SerpAPIKey}, s.Names())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
