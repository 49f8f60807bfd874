// Package search provides web search clients used by the research stage.
package search

import "context"

// Result is a single web search hit.
type Result struct {
	Content string `json:"content"`
	URL     string `json:"url"`
}

// Service executes a web search and returns at most maxResults hits.
// Implementations may fail with transport or quota errors; callers decide
// whether to degrade or propagate.
type Service interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}
