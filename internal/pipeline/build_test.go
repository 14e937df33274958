// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deepdive/internal/config"
	"github.com/pdiddy/deepdive/internal/generate"
	"github.com/pdiddy/deepdive/internal/illustrate"
	"github.com/pdiddy/deepdive/internal/secrets"
	"github.com/pdiddy/deepdive/pkg/types"
)

func testConfig(t *testing.T, set map[string]any) *types.Config {
	t.Helper()
	for _, env := range secrets.EnvVars {
		t.Setenv(env, "")
	}
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range set {
		v.Set(k, val)
	}
	cfg, err := config.Load(v, secrets.Store{})
	require.NoError(t, err)
	return cfg
}

func TestNewBackendsWithoutKeys(t *testing.T) {
	cfg := testConfig(t, nil)
	b, err := NewBackends(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "simulated", b.Web.Provider())
	assert.True(t, b.Video.Simulated())
	assert.Nil(t, b.Text)
	assert.Nil(t, b.Images)
	assert.Nil(t, b.Tool.Generative)
	assert.NotNil(t, b.Limiter)
}

func TestNewBackendsWithKeys(t *testing.T) {
	cfg := testConfig(t, map[string]any{
		"text.anthropic_api_key": "ak",
		"image.openai_api_key":   "ok",
		"text.model":             "claude-test",
	})
	b, err := NewBackends(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	claude, ok := b.Text.(*generate.ClaudeBackend)
	require.True(t, ok)
	assert.Equal(t, "claude-test", claude.Model)

	_, ok = b.Images.(*illustrate.OpenAIImageBackend)
	assert.True(t, ok)
	assert.NotNil(t, b.Tool.Generative)
}

func TestFromConfigRunsOffline(t *testing.T) {
	cfg := testConfig(t, map[string]any{"image.mode": "heuristic"})
	b, err := NewBackends(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	o := FromConfig(cfg, b, nil, nil)
	result, err := o.Run(context.Background(), types.ResearchRequest{Topic: "Coral Reefs", Depth: 1, IncludeIllustrations: true})
	require.NoError(t, err)

	// Two simulated articles, one simulated video, two related articles.
	assert.Len(t, result.Sources, 5)
	assert.Zero(t, result.Metrics.FailedSources)
	assert.Len(t, result.Illustrations, generate.MinConcepts)
	for _, ill := range result.Illustrations {
		assert.Equal(t, types.MethodHeuristicRender, ill.Method)
		assert.NotEmpty(t, ill.Payload)
	}
	assert.Contains(t, result.Content, "Coral Reefs")
}

func TestFromConfigGenerativeWithoutBackendDropsIllustrations(t *testing.T) {
	cfg := testConfig(t, nil)
	b, err := NewBackends(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	result, err := FromConfig(cfg, b, nil, nil).Run(context.Background(),
		types.ResearchRequest{Topic: "Coral Reefs", Depth: 1, IncludeIllustrations: true})
	require.NoError(t, err)
	assert.Empty(t, result.Illustrations)
	assert.NotEmpty(t, result.Content)
}
