// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by backends that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on rate-limited responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ServerConfig identifies the remote-procedure front end.
type ServerConfig struct {
	Name     string `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Version  string `json:"version" yaml:"version" mapstructure:"version" validate:"required"`
	HTTPAddr string `json:"http_addr" yaml:"http_addr" mapstructure:"http_addr"`
}

// LogConfig selects logger verbosity and encoding.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// ResearchConfig holds defaults applied to research requests and the
// diagnostic operations.
type ResearchConfig struct {
	DefaultDepth int   `json:"default_depth" yaml:"default_depth" mapstructure:"default_depth" validate:"min=1,max=5"`
	DefaultStyle Style `json:"default_style" yaml:"default_style" mapstructure:"default_style" validate:"oneof=humorous technical balanced"`

	// MaxWebArticles and MaxVideos are the default result counts of the
	// diagnostic web and video searches.
	MaxWebArticles int `json:"max_web_articles" yaml:"max_web_articles" mapstructure:"max_web_articles" validate:"min=1"`
	MaxVideos      int `json:"max_videos" yaml:"max_videos" mapstructure:"max_videos" validate:"min=1"`

	// IllustrationCount caps how many concepts a research run illustrates.
	// Zero illustrates every concept.
	IllustrationCount int `json:"illustration_count" yaml:"illustration_count" mapstructure:"illustration_count" validate:"min=0"`

	// ImagesDir is where the CLI writes illustration payloads.
	ImagesDir string `json:"images_dir" yaml:"images_dir" mapstructure:"images_dir"`
}

// WebProvider selects the web search implementation.
type WebProvider string

const (
	WebProviderAuto       WebProvider = "auto"
	WebProviderSerpAPI    WebProvider = "serpapi"
	WebProviderDuckDuckGo WebProvider = "duckduckgo"
	WebProviderSimulated  WebProvider = "simulated"
)

// WebConfig holds settings for the web retrieval backend.
type WebConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects the search implementation. Auto picks serpapi when a
	// key is configured and simulated results otherwise.
	Provider WebProvider `json:"provider" yaml:"provider" mapstructure:"provider" validate:"oneof=auto serpapi duckduckgo simulated"`

	// SerpAPIKey authenticates SerpAPI requests.
	SerpAPIKey string `json:"-" yaml:"-" mapstructure:"serp_api_key"`

	// ContentLimit caps the characters kept from each extracted page (default 2000).
	ContentLimit int `json:"content_limit" yaml:"content_limit" mapstructure:"content_limit" validate:"min=1"`

	// FetchRate caps page fetches per second across all queries.
	FetchRate float64 `json:"fetch_rate" yaml:"fetch_rate" mapstructure:"fetch_rate" validate:"gt=0"`
}

// VideoConfig holds settings for the video retrieval backend.
type VideoConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey authenticates YouTube Data API requests. Empty selects simulated results.
	APIKey string `json:"-" yaml:"-" mapstructure:"youtube_api_key"`

	// Languages lists transcript languages in preference order.
	Languages []string `json:"languages" yaml:"languages" mapstructure:"languages"`
}

// TextProvider selects the generative text backend.
type TextProvider string

const (
	TextProviderAnthropic TextProvider = "anthropic"
	TextProviderGemini    TextProvider = "gemini"
	TextProviderNone      TextProvider = "none"
)

// TextConfig holds settings for the generative text backend.
type TextConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	Provider        TextProvider `json:"provider" yaml:"provider" mapstructure:"provider" validate:"oneof=anthropic gemini none"`
	Model           string       `json:"model" yaml:"model" mapstructure:"model"`
	AnthropicAPIKey string       `json:"-" yaml:"-" mapstructure:"anthropic_api_key"`
	GeminiAPIKey    string       `json:"-" yaml:"-" mapstructure:"gemini_api_key"`
}

// ImageProvider selects the generative image backend.
type ImageProvider string

const (
	ImageProviderOpenAI ImageProvider = "openai"
	ImageProviderGemini ImageProvider = "gemini"
	ImageProviderNone   ImageProvider = "none"
)

// IllustrationMode selects the renderer the research pipeline uses.
type IllustrationMode string

const (
	ModeGenerative IllustrationMode = "generative"
	ModeHeuristic  IllustrationMode = "heuristic"
)

// ImageConfig holds settings for the generative image backend.
type ImageConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	Provider     ImageProvider    `json:"provider" yaml:"provider" mapstructure:"provider" validate:"oneof=openai gemini none"`
	Mode         IllustrationMode `json:"mode" yaml:"mode" mapstructure:"mode" validate:"oneof=generative heuristic"`
	Model        string           `json:"model" yaml:"model" mapstructure:"model"`
	Size         string           `json:"size" yaml:"size" mapstructure:"size"`
	Quality      string           `json:"quality" yaml:"quality" mapstructure:"quality"`
	OpenAIAPIKey string           `json:"-" yaml:"-" mapstructure:"openai_api_key"`
	GeminiAPIKey string           `json:"-" yaml:"-" mapstructure:"gemini_api_key"`

	// PerMinute caps image requests per minute.
	PerMinute float64 `json:"per_minute" yaml:"per_minute" mapstructure:"per_minute" validate:"gt=0"`
}

// ArchiveConfig locates the caller-side result archive.
type ArchiveConfig struct {
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// Config is the complete, immutable runtime configuration. It is built once
// at startup and passed by reference into constructors.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
	Research ResearchConfig `json:"research" yaml:"research" mapstructure:"research"`
	Web      WebConfig      `json:"web" yaml:"web" mapstructure:"web"`
	Video    VideoConfig    `json:"video" yaml:"video" mapstructure:"video"`
	Text     TextConfig     `json:"text" yaml:"text" mapstructure:"text"`
	Image    ImageConfig    `json:"image" yaml:"image" mapstructure:"image"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive" mapstructure:"archive"`
}
