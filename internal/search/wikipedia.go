// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sevencode/deepthink/pkg/types"
)

// wikipediaBaseURL returns the site root for a language edition. Declared as
// a var so tests can point it at an httptest server.
var wikipediaBaseURL = func(language string) string {
	return "https://" + language + ".wikipedia.org"
}

const (
	wikipediaSource          = "Wikipedia"
	defaultWikipediaLanguage = "ar"
)

// Wikipedia runs a full-text search against one language edition.
type Wikipedia struct {
	httpProvider
	language string
}

// NewWikipedia builds the Wikipedia provider. The language defaults to Arabic.
func NewWikipedia(cfg types.SearchConfig, logger *slog.Logger) *Wikipedia {
	lang := cfg.Wikipedia.Language
	if lang == "" {
		lang = defaultWikipediaLanguage
	}
	return &Wikipedia{httpProvider: newHTTPProvider(cfg, logger), language: lang}
}

// Name returns the provider identifier.
func (w *Wikipedia) Name() string { return "wikipedia" }

// Search returns matching articles, or nil on any failure.
func (w *Wikipedia) Search(ctx context.Context, query string) []types.SearchResult {
	results, err := w.search(ctx, query)
	if err != nil {
		w.logger.Warn("search provider failed", "provider", w.Name(), "error", err)
		return nil
	}
	return results
}

func (w *Wikipedia) search(ctx context.Context, query string) ([]types.SearchResult, error) {
	base := wikipediaBaseURL(w.language)
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(w.limit)},
		"format":   {"json"},
		"utf8":     {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/w/api.php?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Wikipedia returned HTTP %d", resp.StatusCode)
	}

	var sr wikipediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Wikipedia response: %w", err)
	}

	var results []types.SearchResult
	for _, hit := range sr.Query.Search {
		if hit.Title == "" {
			continue
		}
		if len(results) >= w.limit {
			break
		}
		results = append(results, types.SearchResult{
			Title:   hit.Title,
			URL:     base + "/wiki/" + url.PathEscape(hit.Title),
			Snippet: htmlText(hit.Snippet),
			Source:  wikipediaSource,
		})
	}
	return results, nil
}

// MediaWiki search API JSON structures.
type wikipediaResponse struct {
	Query struct {
		Search []wikipediaHit `json:"search"`
	} `json:"query"`
}

type wikipediaHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}
