package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const ddgLiteEndpoint = "https://lite.duckduckgo.com/lite/"

// DuckDuckGo implements Service by scraping DuckDuckGo's lite HTML interface.
// It needs no API key, which makes it the default provider.
type DuckDuckGo struct {
	client   *http.Client
	endpoint string
}

// NewDuckDuckGo creates a DuckDuckGo searcher with a modest timeout.
func NewDuckDuckGo() *DuckDuckGo {
	return NewDuckDuckGoWithClient(&http.Client{Timeout: 15 * time.Second})
}

// NewDuckDuckGoWithClient creates a DuckDuckGo searcher using the supplied
// HTTP client. Useful for overriding the default timeout.
func NewDuckDuckGoWithClient(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{client: client, endpoint: ddgLiteEndpoint}
}

// Search scrapes the lite HTML page for results.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	formData := url.Values{}
	formData.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return parseLiteResults(doc, maxResults), nil
}

// parseLiteResults extracts results from the lite page. The page lays out
// each hit as a result-link anchor followed by a result-snippet cell.
func parseLiteResults(doc *goquery.Document, maxResults int) []Result {
	links := doc.Find("a.result-link")
	snippets := doc.Find("td.result-snippet")

	var results []Result
	seen := make(map[string]bool)

	links.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		href = strings.TrimSpace(href)
		title := strings.TrimSpace(sel.Text())
		if !ok || href == "" || title == "" {
			return true
		}
		// Skip DuckDuckGo internal links
		if strings.HasPrefix(href, "/") || strings.Contains(href, "duckduckgo.com") {
			return true
		}
		if seen[href] {
			return true
		}
		seen[href] = true

		content := title
		if snippet := strings.TrimSpace(snippets.Eq(i).Text()); snippet != "" {
			content = fmt.Sprintf("%s: %s", title, snippet)
		}

		results = append(results, Result{
			Content: content,
			URL:     href,
		})
		return len(results) < maxResults
	})

	return results
}
