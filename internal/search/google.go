package search

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Google implements Service using the Google Custom Search JSON API.
type Google struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogle creates a Google search client. cx is the programmable search
// engine ID.
func NewGoogle(ctx context.Context, apiKey, cx string) (*Google, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &Google{
		svc: svc,
		cx:  cx,
	}, nil
}

// Search queries the custom search engine and maps hits to Results.
func (g *Google) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	// The API caps num at 10 per request.
	if maxResults > 10 {
		maxResults = 10
	}

	resp, err := g.svc.Cse.List().Context(ctx).Cx(g.cx).Q(query).Num(int64(maxResults)).Do()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		content := item.Snippet
		if content == "" {
			content = item.Title
		}
		results = append(results, Result{
			Content: content,
			URL:     item.Link,
		})
	}
	return results, nil
}
