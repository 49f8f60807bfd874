// Package config provides configuration loading and validation for the service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// StageThresholds holds the informational performance thresholds for one
// pipeline stage. Breaching a threshold is recorded in the run's metrics but
// never blocks the pipeline.
type StageThresholds struct {
	MaxDurationSeconds float64 `json:"max_duration_seconds,omitempty"`
	MinCount           int     `json:"min_count,omitempty"` // findings for research, words otherwise
}

// Thresholds groups the per-stage performance thresholds.
type Thresholds struct {
	Research   StageThresholds `json:"research,omitempty"`
	Writer     StageThresholds `json:"writer,omitempty"`
	Newsletter StageThresholds `json:"newsletter,omitempty"`
}

// DefaultThresholds returns the monitoring thresholds used when no override
// is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Research:   StageThresholds{MaxDurationSeconds: 30, MinCount: 3},
		Writer:     StageThresholds{MaxDurationSeconds: 45, MinCount: 400},
		Newsletter: StageThresholds{MaxDurationSeconds: 20, MinCount: 150},
	}
}

// Config represents the service configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or environment
// variables.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// External services
	APIKey         string `json:"api_key,omitempty"`         // Gemini API key
	SearchProvider string `json:"search_provider,omitempty"` // "google" or "duckduckgo"
	SearchAPIKey   string `json:"search_api_key,omitempty"`  // Google Custom Search API key
	SearchCX       string `json:"search_cx,omitempty"`       // Google Custom Search engine ID

	// Monitoring
	Thresholds *Thresholds `json:"thresholds,omitempty"` // per-stage performance thresholds
}

// Search provider names accepted in SearchProvider.
const (
	SearchProviderGoogle     = "google"
	SearchProviderDuckDuckGo = "duckduckgo"
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv fills empty fields from environment variables. Explicit config
// file values always win over the environment.
func (c *Config) ApplyEnv() {
	if c.Port == 0 {
		if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
			c.Port = p
		}
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.SearchProvider == "" {
		c.SearchProvider = os.Getenv("SEARCH_PROVIDER")
	}
	if c.SearchAPIKey == "" {
		c.SearchAPIKey = os.Getenv("GOOGLE_SEARCH_API_KEY")
	}
	if c.SearchCX == "" {
		c.SearchCX = os.Getenv("GOOGLE_SEARCH_CX")
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	switch c.SearchProvider {
	case "", SearchProviderGoogle, SearchProviderDuckDuckGo:
	default:
		return fmt.Errorf("config error: unknown search provider %q", c.SearchProvider)
	}
	if c.SearchProvider == SearchProviderGoogle && (c.SearchAPIKey == "" || c.SearchCX == "") {
		return fmt.Errorf("config error: search provider %q requires 'search_api_key' and 'search_cx'", SearchProviderGoogle)
	}
	if t := c.Thresholds; t != nil {
		for name, st := range map[string]StageThresholds{
			"research": t.Research, "writer": t.Writer, "newsletter": t.Newsletter,
		} {
			if st.MaxDurationSeconds < 0 {
				return fmt.Errorf("config error: %s 'max_duration_seconds' must be non-negative", name)
			}
			if st.MinCount < 0 {
				return fmt.Errorf("config error: %s 'min_count' must be non-negative", name)
			}
		}
	}
	return nil
}

// EffectiveThresholds returns the configured thresholds with unset stages
// filled from the defaults.
func (c *Config) EffectiveThresholds() Thresholds {
	defaults := DefaultThresholds()
	if c.Thresholds == nil {
		return defaults
	}
	out := *c.Thresholds
	if out.Research == (StageThresholds{}) {
		out.Research = defaults.Research
	}
	if out.Writer == (StageThresholds{}) {
		out.Writer = defaults.Writer
	}
	if out.Newsletter == (StageThresholds{}) {
		out.Newsletter = defaults.Newsletter
	}
	return out
}
