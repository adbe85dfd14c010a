// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the deep-thinking
// pipeline, the search aggregator, the completion clients, and the CLI.
package types

import "time"

// SearchResult is a single hit returned by a search provider. URL is the
// identity of a result: two results with the same URL are the same result.
type SearchResult struct {
	// Title is the headline of the result as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the canonical link for the result and the deduplication key.
	URL string `json:"url" yaml:"url"`

	// Snippet is a short plain-text excerpt.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Source names the provider that produced the result (e.g. "DuckDuckGo").
	Source string `json:"source" yaml:"source"`
}

// SearchResponse is the merged, deduplicated output of one aggregate search.
// It is never mutated after it is returned.
type SearchResponse struct {
	Results   []SearchResult `json:"results" yaml:"results"`
	Query     string         `json:"query" yaml:"query"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}
