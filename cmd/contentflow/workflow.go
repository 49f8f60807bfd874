package main

import (
	"context"
	"fmt"

	"github.com/contentflow/contentflow/internal/config"
	"github.com/contentflow/contentflow/internal/llm"
	"github.com/contentflow/contentflow/internal/pipeline"
	"github.com/contentflow/contentflow/internal/search"
)

// loadConfig reads the optional config file and applies environment fallbacks.
func loadConfig(path string) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildWorkflow assembles the pipeline from configuration: the Gemini client
// plus either the Google or DuckDuckGo search provider.
func buildWorkflow(ctx context.Context, cfg *config.Config) (*pipeline.Workflow, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable or 'api_key' config entry is required")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	provider := cfg.SearchProvider
	if provider == "" {
		// Prefer Google when its credentials are configured.
		if cfg.SearchAPIKey != "" && cfg.SearchCX != "" {
			provider = config.SearchProviderGoogle
		} else {
			provider = config.SearchProviderDuckDuckGo
		}
	}

	var searcher search.Service
	switch provider {
	case config.SearchProviderGoogle:
		searcher, err = search.NewGoogle(ctx, cfg.SearchAPIKey, cfg.SearchCX)
		if err != nil {
			return nil, fmt.Errorf("failed to create search client: %w", err)
		}
	default:
		searcher = search.NewDuckDuckGo()
	}

	return pipeline.New(client, searcher, cfg.EffectiveThresholds()), nil
}
