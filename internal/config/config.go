// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds the immutable runtime configuration. Values come
// from viper defaults, an optional deepdive.yaml file, DEEPDIVE_ prefixed
// environment variables, a .env file, and API keys from the secrets store.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/deepdive/internal/secrets"
	"github.com/pdiddy/deepdive/pkg/types"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. DEEPDIVE_WEB_PROVIDER.
	EnvPrefix = "DEEPDIVE"

	// FileName is the config file name searched for without extension.
	FileName = "deepdive"
)

// legacyEnv binds configuration keys to the unprefixed environment
// variables the earlier agent read.
var legacyEnv = map[string]string{
	"server.name":                 "MCP_SERVER_NAME",
	"server.version":              "MCP_SERVER_VERSION",
	"research.max_web_articles":   "MAX_WEB_ARTICLES",
	"research.max_videos":         "MAX_YOUTUBE_VIDEOS",
	"research.illustration_count": "CARTOON_COUNT",
	"text.model":                  "ANTHROPIC_MODEL",
	"image.model":                 "DALLE_MODEL",
	"image.size":                  "DALLE_SIZE",
	"image.quality":               "DALLE_QUALITY",
}

// SetDefaults registers every configuration key with its default so that
// environment overrides apply to all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "deepdive")
	v.SetDefault("server.version", "0.1.0")
	v.SetDefault("server.http_addr", ":8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("research.default_depth", types.DefaultDepth)
	v.SetDefault("research.default_style", string(types.StyleHumorous))
	v.SetDefault("research.max_web_articles", 5)
	v.SetDefault("research.max_videos", 3)
	v.SetDefault("research.illustration_count", 0)
	v.SetDefault("research.images_dir", "images")

	v.SetDefault("web.provider", string(types.WebProviderAuto))
	v.SetDefault("web.timeout", 10*time.Second)
	v.SetDefault("web.user_agent", "Mozilla/5.0 (compatible; deepdive/1.0)")
	v.SetDefault("web.max_retries", 3)
	v.SetDefault("web.content_limit", 2000)
	v.SetDefault("web.fetch_rate", 5.0)
	v.SetDefault("web.serp_api_key", "")

	v.SetDefault("video.timeout", 15*time.Second)
	v.SetDefault("video.max_retries", 3)
	v.SetDefault("video.languages", []string{"en", "en-US", "en-GB"})
	v.SetDefault("video.youtube_api_key", "")

	v.SetDefault("text.provider", string(types.TextProviderAnthropic))
	v.SetDefault("text.model", "")
	v.SetDefault("text.timeout", 2*time.Minute)
	v.SetDefault("text.max_retries", 5)
	v.SetDefault("text.anthropic_api_key", "")
	v.SetDefault("text.gemini_api_key", "")

	v.SetDefault("image.provider", string(types.ImageProviderOpenAI))
	v.SetDefault("image.mode", string(types.ModeGenerative))
	v.SetDefault("image.model", "")
	v.SetDefault("image.size", "1024x1024")
	v.SetDefault("image.quality", "standard")
	v.SetDefault("image.timeout", 2*time.Minute)
	v.SetDefault("image.max_retries", 3)
	v.SetDefault("image.per_minute", 5.0)
	v.SetDefault("image.openai_api_key", "")
	v.SetDefault("image.gemini_api_key", "")

	v.SetDefault("archive.dir", ".deepdive")
}

// Prepare points v at its config sources: cfgFile when set, otherwise
// deepdive.yaml in the working directory or ~/.config/deepdive/. It enables
// DEEPDIVE_ environment overrides and reads the config file if one exists.
// It returns the file used, or "" when none was found.
func Prepare(v *viper.Viper, cfgFile string) (string, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return "", fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// LoadDotEnv loads the first existing file among paths into the process
// environment without overriding variables that are already set. It
// returns the file loaded, or "" when none exists.
func LoadDotEnv(paths ...string) (string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("checking %s: %w", p, err)
		}
		if err := godotenv.Load(p); err != nil {
			return "", fmt.Errorf("loading %s: %w", p, err)
		}
		return p, nil
	}
	return "", nil
}

// Load unmarshals v into a Config, fills API keys that v left empty from
// keys, and validates the result.
func Load(v *viper.Viper, keys secrets.Store) (*types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	applySecrets(&cfg, keys)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applySecrets(cfg *types.Config, keys secrets.Store) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = keys.Resolve(key)
		}
	}
	fill(&cfg.Web.SerpAPIKey, secrets.SerpAPIKey)
	fill(&cfg.Video.APIKey, secrets.YouTubeKey)
	fill(&cfg.Text.AnthropicAPIKey, secrets.AnthropicKey)
	fill(&cfg.Text.GeminiAPIKey, secrets.GeminiKey)
	fill(&cfg.Image.OpenAIAPIKey, secrets.OpenAIKey)
	fill(&cfg.Image.GeminiAPIKey, secrets.GeminiKey)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its field constraints.
func Validate(cfg *types.Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
