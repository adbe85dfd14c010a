// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries live web providers and returns one merged,
// deduplicated result list suitable for embedding in a prompt.
package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sevencode/deepthink/internal/logging"
	"github.com/sevencode/deepthink/pkg/types"
)

// DefaultMaxResults is the size of the merged result list.
const DefaultMaxResults = 5

// Provider is one search backend. Search never fails: a provider that
// cannot answer returns an empty slice and logs the reason.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) []types.SearchResult
}

// Aggregator fans a query out to every provider concurrently, waits for all
// of them, and merges the results in provider order.
type Aggregator struct {
	providers  []Provider
	maxResults int
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithMaxResults overrides the merged list size.
func WithMaxResults(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxResults = n
		}
	}
}

// WithLogger sets the logger used for search events.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logging.OrDiscard(l) }
}

// WithClock replaces time.Now for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator builds an aggregator over providers. Provider order is
// significant: on duplicate URLs the earlier provider's result wins.
func NewAggregator(providers []Provider, opts ...Option) *Aggregator {
	a := &Aggregator{
		providers:  providers,
		maxResults: DefaultMaxResults,
		logger:     logging.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Providers returns the names of the configured providers in order.
func (a *Aggregator) Providers() []string {
	names := make([]string, len(a.providers))
	for i, p := range a.providers {
		names[i] = p.Name()
	}
	return names
}

// Aggregate runs every provider in parallel and joins on all of them. The
// merged list is deduplicated by URL, first seen wins, then truncated to
// the configured maximum. An empty result list is a valid response.
func (a *Aggregator) Aggregate(ctx context.Context, query string) types.SearchResponse {
	a.logger.Info("web search started", "query", query, "providers", len(a.providers))
	start := time.Now()

	perProvider := make([][]types.SearchResult, len(a.providers))
	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			perProvider[i] = p.Search(ctx, query)
		}(i, p)
	}
	wg.Wait()

	var all []types.SearchResult
	for _, results := range perProvider {
		all = append(all, results...)
	}

	unique := deduplicate(all)
	duplicates := len(all) - len(unique)
	if len(unique) > a.maxResults {
		unique = unique[:a.maxResults]
	}

	a.logger.Info("web search completed",
		"query", query,
		"results", len(unique),
		"duplicates", duplicates,
		"duration", time.Since(start))

	return types.SearchResponse{
		Results:   unique,
		Query:     query,
		Timestamp: a.now(),
	}
}

// Search satisfies the pipeline's searcher contract. It only fails when ctx
// is already done, since no provider call would start in that case.
func (a *Aggregator) Search(ctx context.Context, query string) (types.SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.SearchResponse{}, err
	}
	return a.Aggregate(ctx, query), nil
}

// deduplicate keeps the first result for each URL, preserving order.
func deduplicate(results []types.SearchResult) []types.SearchResult {
	seen := make(map[string]bool, len(results))
	deduped := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		deduped = append(deduped, r)
	}
	return deduped
}
