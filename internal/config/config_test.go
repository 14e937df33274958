// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deepdive/internal/secrets"
	"github.com/pdiddy/deepdive/pkg/types"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, env := range secrets.EnvVars {
		t.Setenv(env, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearKeyEnv(t)
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v, secrets.Store{})
	require.NoError(t, err)

	assert.Equal(t, "deepdive", cfg.Server.Name)
	assert.Equal(t, types.DefaultDepth, cfg.Research.DefaultDepth)
	assert.Equal(t, types.StyleHumorous, cfg.Research.DefaultStyle)
	assert.Equal(t, 5, cfg.Research.MaxWebArticles)
	assert.Equal(t, 3, cfg.Research.MaxVideos)
	assert.Equal(t, types.WebProviderAuto, cfg.Web.Provider)
	assert.Equal(t, 10*time.Second, cfg.Web.Timeout)
	assert.Equal(t, 2000, cfg.Web.ContentLimit)
	assert.Equal(t, []string{"en", "en-US", "en-GB"}, cfg.Video.Languages)
	assert.Equal(t, types.TextProviderAnthropic, cfg.Text.Provider)
	assert.Equal(t, types.ModeGenerative, cfg.Image.Mode)
	assert.Empty(t, cfg.Web.SerpAPIKey)
}

func TestPrepareReadsFileAndEnv(t *testing.T) {
	clearKeyEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "deepdive.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
research:
  default_depth: 4
  default_style: technical
web:
  provider: duckduckgo
  timeout: 30s
image:
  mode: heuristic
`), 0o644))

	t.Setenv("DEEPDIVE_LOG_LEVEL", "debug")
	t.Setenv("DEEPDIVE_WEB_CONTENT_LIMIT", "500")
	t.Setenv("MAX_YOUTUBE_VIDEOS", "4")

	v := viper.New()
	used, err := Prepare(v, file)
	require.NoError(t, err)
	assert.Equal(t, file, used)

	cfg, err := Load(v, secrets.Store{})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Research.DefaultDepth)
	assert.Equal(t, types.StyleTechnical, cfg.Research.DefaultStyle)
	assert.Equal(t, types.WebProviderDuckDuckGo, cfg.Web.Provider)
	assert.Equal(t, 30*time.Second, cfg.Web.Timeout)
	assert.Equal(t, types.ModeHeuristic, cfg.Image.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 500, cfg.Web.ContentLimit)
	assert.Equal(t, 4, cfg.Research.MaxVideos)
}

func TestLoadFillsSecrets(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	v := viper.New()
	SetDefaults(v)
	v.Set("text.anthropic_api_key", "from-config")

	cfg, err := Load(v, secrets.Store{
		secrets.AnthropicKey: "from-file",
		secrets.SerpAPIKey:   "serp",
		secrets.YouTubeKey:   "yt",
		secrets.GeminiKey:    "gem",
	})
	require.NoError(t, err)
	assert.Equal(t, "from-config", cfg.Text.AnthropicAPIKey)
	assert.Equal(t, "serp", cfg.Web.SerpAPIKey)
	assert.Equal(t, "yt", cfg.Video.APIKey)
	assert.Equal(t, "gem", cfg.Text.GeminiAPIKey)
	assert.Equal(t, "gem", cfg.Image.GeminiAPIKey)
	assert.Equal(t, "sk-env", cfg.Image.OpenAIAPIKey)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]func(v *viper.Viper){
		"depth too large": func(v *viper.Viper) { v.Set("research.default_depth", 9) },
		"unknown style":   func(v *viper.Viper) { v.Set("research.default_style", "poetic") },
		"unknown web":     func(v *viper.Viper) { v.Set("web.provider", "bing") },
		"zero fetch rate": func(v *viper.Viper) { v.Set("web.fetch_rate", 0) },
		"bad log format":  func(v *viper.Viper) { v.Set("log.format", "xml") },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			mutate(v)
			_, err := Load(v, secrets.Store{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DEEPDIVE_TEST_DOTENV=loaded\n"), 0o644))
	t.Setenv("DEEPDIVE_TEST_DOTENV", "")
	os.Unsetenv("DEEPDIVE_TEST_DOTENV")

	used, err := LoadDotEnv(filepath.Join(dir, "missing.env"), envFile)
	require.NoError(t, err)
	assert.Equal(t, envFile, used)
	assert.Equal(t, "loaded", os.Getenv("DEEPDIVE_TEST_DOTENV"))

	used, err = LoadDotEnv(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, used)
}
