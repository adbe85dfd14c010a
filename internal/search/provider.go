// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sevencode/deepthink/internal/logging"
	"github.com/sevencode/deepthink/pkg/types"
)

const (
	// MaxProviderTimeout bounds every provider call.
	MaxProviderTimeout = 5 * time.Second

	defaultPerProvider = 3
	defaultUserAgent   = "deepthink/0.1"
)

// httpProvider carries the settings every HTTP-backed provider shares.
type httpProvider struct {
	client    *http.Client
	userAgent string
	limit     int
	logger    *slog.Logger
}

func newHTTPProvider(cfg types.SearchConfig, logger *slog.Logger) httpProvider {
	timeout := cfg.Timeout
	if timeout <= 0 || timeout > MaxProviderTimeout {
		timeout = MaxProviderTimeout
	}
	limit := cfg.PerProvider
	if limit <= 0 {
		limit = defaultPerProvider
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return httpProvider{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		limit:     limit,
		logger:    logging.OrDiscard(logger),
	}
}

// NewProviders builds the providers enabled in cfg, in merge order:
// DuckDuckGo first, then Wikipedia.
func NewProviders(cfg types.SearchConfig, logger *slog.Logger) []Provider {
	var providers []Provider
	if cfg.DuckDuckGo.Enabled {
		providers = append(providers, NewDuckDuckGo(cfg, logger))
	}
	if cfg.Wikipedia.Enabled {
		providers = append(providers, NewWikipedia(cfg, logger))
	}
	return providers
}

// htmlText returns the visible text of an HTML fragment with entities decoded.
func htmlText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

// firstAnchorText returns the text of the first link in an HTML fragment.
func firstAnchorText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("a").First().Text())
}
