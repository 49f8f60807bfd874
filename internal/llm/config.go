// Package llm provides centralized LLM configuration and client abstractions.
// Each pipeline stage can run against a distinct model configuration.
package llm

// Stage identifies which pipeline stage a generation call serves.
type Stage string

// Pipeline stages with dedicated model configurations.
const (
	// StageResearch extracts findings from search results. Low temperature
	// keeps the output close to the source material.
	StageResearch Stage = "research"
	// StageWriter drafts the full article and its title. Higher temperature
	// for more engaging prose.
	StageWriter Stage = "writer"
	// StageNewsletter condenses the article into an email summary.
	StageNewsletter Stage = "newsletter"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
)

// ModelConfig is the generation configuration for one stage.
type ModelConfig struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[Stage]ModelConfig
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[Stage]ModelConfig{
			StageResearch:   {Model: "gemini-2.5-flash-lite", Temperature: 0.3, MaxOutputTokens: 1000},
			StageWriter:     {Model: "gemini-2.5-pro", Temperature: 0.7, MaxOutputTokens: 2000},
			StageNewsletter: {Model: "gemini-2.5-flash", Temperature: 0.5, MaxOutputTokens: 800},
		},
	}
}

// ModelFor returns the model configuration for a given stage.
// Stages without an explicit entry fall back to the writer configuration.
func (c *Config) ModelFor(stage Stage) ModelConfig {
	if m, ok := c.Models[stage]; ok {
		return m
	}
	if m, ok := c.Models[StageWriter]; ok {
		return m
	}
	return ModelConfig{}
}

// WithModel returns a new Config with a specific model configuration for a stage.
func (c *Config) WithModel(stage Stage, model ModelConfig) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[Stage]ModelConfig, len(c.Models)+1),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[stage] = model
	return newConfig
}
