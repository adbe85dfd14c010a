// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the external text-completion oracle. Callers hand a
// Completer an ordered list of role-tagged messages and get back the
// generated text or a *ProviderError.
package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/sevencode/deepthink/pkg/types"
)

// Completer turns an ordered conversation into generated text.
type Completer interface {
	Complete(ctx context.Context, messages []types.Message) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, messages []types.Message) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, messages []types.Message) (string, error) {
	return f(ctx, messages)
}

const (
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 3
)

// NewCompleter builds the client selected by cfg.Provider.
func NewCompleter(cfg types.LLMConfig) (Completer, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		return NewOpenAI(cfg, client), nil
	case types.ProviderAnthropic:
		return NewAnthropic(cfg, client), nil
	default:
		return nil, ErrUnsupportedProvider{Provider: string(cfg.Provider)}
	}
}

func maxRetries(cfg types.LLMConfig) int {
	if cfg.MaxRetries <= 0 {
		return defaultMaxRetries
	}
	return cfg.MaxRetries
}

func defaultIfEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
