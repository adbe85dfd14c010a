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
	anthropicName         = "anthropic"
	defaultAnthropicURL   = "https://api.anthropic.com/v1"
	defaultAnthropicModel = "claude-sonnet-4-5"
	anthropicVersion      = "2023-06-01"
	anthropicMaxTokens    = 4096
)

// Anthropic calls the Claude Messages API.
type Anthropic struct {
	apiKey     string
	model      string
	baseURL    string
	maxRetries int
	client     *http.Client
}

// NewAnthropic builds a Claude Messages client.
func NewAnthropic(cfg types.LLMConfig, client *http.Client) *Anthropic {
	return &Anthropic{
		apiKey:     cfg.APIKey,
		model:      defaultIfEmpty(cfg.Model, defaultAnthropicModel),
		baseURL:    strings.TrimRight(defaultIfEmpty(cfg.BaseURL, defaultAnthropicURL), "/"),
		maxRetries: maxRetries(cfg),
		client:     client,
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends messages and joins the text blocks of the reply. System
// messages are lifted into the top-level system field, which is where the
// Messages API expects them.
func (c *Anthropic) Complete(ctx context.Context, messages []types.Message) (string, error) {
	if c.apiKey == "" {
		return "", &ProviderError{Provider: anthropicName, Message: "missing API key"}
	}

	system, turns := splitSystem(messages)
	if len(turns) == 0 {
		return "", &ProviderError{Provider: anthropicName, Message: "no user or assistant messages"}
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     c.model,
		MaxTokens: anthropicMaxTokens,
		System:    system,
		Messages:  turns,
	})
	if err != nil {
		return "", &ProviderError{Provider: anthropicName, Message: "marshaling request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: anthropicName, Message: "creating request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.maxRetries)
	if err != nil {
		return "", &ProviderError{Provider: anthropicName, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{Provider: anthropicName, StatusCode: resp.StatusCode, Message: httputil.ReadErrorBody(resp)}
	}

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ProviderError{Provider: anthropicName, Message: "decoding response", Err: err}
	}

	var b strings.Builder
	for _, block := range parsed.Content {
		if block.Type != "text" {
			continue
		}
		b.WriteString(block.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", &ProviderError{Provider: anthropicName, Message: "no text content in response"}
	}
	return text, nil
}

// splitSystem separates system messages from the conversational turns.
func splitSystem(messages []types.Message) (string, []anthropicMessage) {
	var (
		system []string
		turns  []anthropicMessage
	)
	for _, m := range messages {
		if m.Role == types.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, anthropicMessage{Role: string(m.Role), Content: m.Content})
	}
	return strings.Join(system, "\n\n"), turns
}
