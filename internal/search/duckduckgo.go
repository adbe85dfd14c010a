// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sevencode/deepthink/pkg/types"
)

// duckDuckGoAPIBase is the Instant Answer endpoint. Declared as a var so
// tests can substitute an httptest server.
var duckDuckGoAPIBase = "https://api.duckduckgo.com/"

const (
	duckDuckGoSource       = "DuckDuckGo"
	duckDuckGoDefaultTitle = "نتيجة رئيسية"
	duckDuckGoTopicTitle   = "نتيجة"
)

// DuckDuckGo queries the Instant Answer API for an abstract and related
// topics. It returns at most one abstract plus the per-provider limit of
// topics.
type DuckDuckGo struct {
	httpProvider
}

// NewDuckDuckGo builds the DuckDuckGo provider.
func NewDuckDuckGo(cfg types.SearchConfig, logger *slog.Logger) *DuckDuckGo {
	return &DuckDuckGo{httpProvider: newHTTPProvider(cfg, logger)}
}

// Name returns the provider identifier.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search returns results for query, or nil when the API is unreachable or
// answers with something unparsable.
func (d *DuckDuckGo) Search(ctx context.Context, query string) []types.SearchResult {
	results, err := d.search(ctx, query)
	if err != nil {
		d.logger.Warn("search provider failed", "provider", d.Name(), "error", err)
		return nil
	}
	return results
}

func (d *DuckDuckGo) search(ctx context.Context, query string) ([]types.SearchResult, error) {
	params := url.Values{
		"q":             {query},
		"format":        {"json"},
		"no_html":       {"1"},
		"skip_disambig": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, duckDuckGoAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("DuckDuckGo returned HTTP %d", resp.StatusCode)
	}

	var ia duckDuckGoResponse
	if err := json.NewDecoder(resp.Body).Decode(&ia); err != nil {
		return nil, fmt.Errorf("parsing DuckDuckGo response: %w", err)
	}
	return ia.results(d.limit), nil
}

// results converts the Instant Answer payload, skipping entries without a URL.
func (ia duckDuckGoResponse) results(limit int) []types.SearchResult {
	var results []types.SearchResult

	if ia.Abstract != "" && ia.AbstractURL != "" {
		title := ia.Heading
		if title == "" {
			title = duckDuckGoDefaultTitle
		}
		results = append(results, types.SearchResult{
			Title:   title,
			URL:     ia.AbstractURL,
			Snippet: ia.Abstract,
			Source:  duckDuckGoSource,
		})
	}

	topics := 0
	for _, t := range flattenTopics(ia.RelatedTopics) {
		if topics >= limit {
			break
		}
		if t.Text == "" || t.FirstURL == "" {
			continue
		}
		results = append(results, types.SearchResult{
			Title:   topicTitle(t),
			URL:     t.FirstURL,
			Snippet: t.Text,
			Source:  duckDuckGoSource,
		})
		topics++
	}
	return results
}

// flattenTopics expands category groups into their member topics.
func flattenTopics(topics []duckDuckGoTopic) []duckDuckGoTopic {
	var flat []duckDuckGoTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			flat = append(flat, t.Topics...)
			continue
		}
		flat = append(flat, t)
	}
	return flat
}

// topicTitle prefers the link text of the HTML result and falls back to the
// text before the first " - " separator.
func topicTitle(t duckDuckGoTopic) string {
	if title := firstAnchorText(t.Result); title != "" {
		return title
	}
	if head, _, _ := strings.Cut(t.Text, " - "); strings.TrimSpace(head) != "" {
		return strings.TrimSpace(head)
	}
	return duckDuckGoTopicTitle
}

// DuckDuckGo Instant Answer JSON structures.
type duckDuckGoResponse struct {
	Heading       string            `json:"Heading"`
	Abstract      string            `json:"Abstract"`
	AbstractURL   string            `json:"AbstractURL"`
	RelatedTopics []duckDuckGoTopic `json:"RelatedTopics"`
}

type duckDuckGoTopic struct {
	Text     string            `json:"Text"`
	FirstURL string            `json:"FirstURL"`
	Result   string            `json:"Result"`
	Name     string            `json:"Name"`
	Topics   []duckDuckGoTopic `json:"Topics"`
}
