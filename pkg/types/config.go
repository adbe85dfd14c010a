// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LLMProvider names a completion backend.
type LLMProvider string

const (
	ProviderOpenAI    LLMProvider = "openai"
	ProviderAnthropic LLMProvider = "anthropic"
)

// LLMConfig holds settings for the text-completion client.
type LLMConfig struct {
	// Provider selects the API dialect: openai or anthropic.
	Provider LLMProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier sent with every request.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// BaseURL overrides the provider's default API root.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey authenticates against the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Timeout is the HTTP client timeout for one request (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries is the number of retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ProviderToggle enables a single search provider.
type ProviderToggle struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// WikipediaConfig configures the encyclopedia provider.
type WikipediaConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Language is the wiki subdomain to query (default "ar").
	Language string `json:"language" yaml:"language" mapstructure:"language"`
}

// SearchConfig holds settings for the search aggregator and its providers.
type SearchConfig struct {
	// Timeout bounds each provider call. Values above 5s are clamped.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is sent with every provider request.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxResults is the size of the merged result list (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// PerProvider caps how many results each provider contributes (default 3).
	PerProvider int `json:"per_provider" yaml:"per_provider" mapstructure:"per_provider"`

	DuckDuckGo ProviderToggle  `json:"duckduckgo" yaml:"duckduckgo" mapstructure:"duckduckgo"`
	Wikipedia  WikipediaConfig `json:"wikipedia" yaml:"wikipedia" mapstructure:"wikipedia"`
}

// ThinkingConfig holds settings for the reasoning pipeline.
type ThinkingConfig struct {
	// CompletionTimeout is the budget for a single completion call (default 90s).
	CompletionTimeout time.Duration `json:"completion_timeout" yaml:"completion_timeout" mapstructure:"completion_timeout"`
}

// HistoryConfig holds settings for the local run archive.
type HistoryConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Dir is the directory that holds the SQLite database.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// Config groups every setting the CLI loads.
type Config struct {
	LLM      LLMConfig      `json:"llm" yaml:"llm" mapstructure:"llm"`
	Search   SearchConfig   `json:"search" yaml:"search" mapstructure:"search"`
	Thinking ThinkingConfig `json:"thinking" yaml:"thinking" mapstructure:"thinking"`
	History  HistoryConfig  `json:"history" yaml:"history" mapstructure:"history"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}
