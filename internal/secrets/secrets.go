// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value. A key missing from the
// directory falls back to its conventional environment variable.
//
// Supported key files: anthropic-api-key, openai-api-key, gemini-api-key,
// youtube-api-key, serp-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Key file names.
const (
	AnthropicKey = "anthropic-api-key"
	OpenAIKey    = "openai-api-key"
	GeminiKey    = "gemini-api-key"
	YouTubeKey   = "youtube-api-key"
	SerpAPIKey   = "serp-api-key"
)

// EnvVars maps each key file to the environment variable consulted when the
// file is absent.
var EnvVars = map[string]string{
	AnthropicKey: "ANTHROPIC_API_KEY",
	OpenAIKey:    "OPENAI_API_KEY",
	GeminiKey:    "GEMINI_API_KEY",
	YouTubeKey:   "YOUTUBE_API_KEY",
	SerpAPIKey:   "SERP_API_KEY",
}

// Store holds loaded secrets keyed by file name.
type Store map[string]string

// Load reads all files in dir and returns a Store of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty
// Store. Unreadable files are logged and skipped.
func Load(dir string, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Store)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Resolve returns the secret for key, or the value of its environment
// variable when the key was not loaded from disk.
func (s Store) Resolve(key string) string {
	if v, ok := s[key]; ok {
		return v
	}
	if env, ok := EnvVars[key]; ok {
		return strings.TrimSpace(os.Getenv(env))
	}
	return ""
}

// Names returns the loaded key names in sorted order. Values are never
// exposed so the list is safe to log.
func (s Store) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
