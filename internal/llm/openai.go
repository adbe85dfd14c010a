// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sevencode/deepthink/internal/httputil"
	"github.com/sevencode/deepthink/pkg/types"
)

const (
	openAIName         = "openai"
	defaultOpenAIURL   = "https://api.openai.com/v1"
	defaultOpenAIModel = "gpt-4o-mini"
)

// OpenAI calls an OpenAI-compatible /chat/completions endpoint.
type OpenAI struct {
	apiKey     string
	model      string
	baseURL    string
	maxRetries int
	client     *http.Client
}

// NewOpenAI builds an OpenAI-compatible client. BaseURL may point at any
// server speaking the same dialect.
func NewOpenAI(cfg types.LLMConfig, client *http.Client) *OpenAI {
	return &OpenAI{
		apiKey:     cfg.APIKey,
		model:      defaultIfEmpty(cfg.Model, defaultOpenAIModel),
		baseURL:    strings.TrimRight(defaultIfEmpty(cfg.BaseURL, defaultOpenAIURL), "/"),
		maxRetries: maxRetries(cfg),
		client:     client,
	}
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []types.Message `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends messages and returns the first choice's content.
func (c *OpenAI) Complete(ctx context.Context, messages []types.Message) (string, error) {
	if c.apiKey == "" {
		return "", &ProviderError{Provider: openAIName, Message: "missing API key"}
	}

	body, err := json.Marshal(openAIRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", &ProviderError{Provider: openAIName, Message: "marshaling request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: openAIName, Message: "creating request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.maxRetries)
	if err != nil {
		return "", &ProviderError{Provider: openAIName, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{Provider: openAIName, StatusCode: resp.StatusCode, Message: httputil.ReadErrorBody(resp)}
	}

	var parsed openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ProviderError{Provider: openAIName, Message: "decoding response", Err: err}
	}
	if parsed.Error != nil {
		return "", &ProviderError{Provider: openAIName, Message: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 {
		return "", &ProviderError{Provider: openAIName, Message: "response had no choices"}
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", &ProviderError{Provider: openAIName, Message: "empty content"}
	}
	return text, nil
}
