// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevencode/deepthink/internal/logging"
	"github.com/sevencode/deepthink/internal/secrets"
	"github.com/sevencode/deepthink/pkg/types"
)

// envKeyReplacer maps nested keys to variable names: llm.api_key becomes
// DEEPTHINK_LLM_API_KEY.
func envKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// setDefaults registers every config key so that environment overrides
// reach viper.Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", string(types.ProviderOpenAI))
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.max_retries", 3)

	v.SetDefault("search.timeout", 5*time.Second)
	v.SetDefault("search.user_agent", "deepthink/"+version)
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.per_provider", 3)
	v.SetDefault("search.duckduckgo.enabled", true)
	v.SetDefault("search.wikipedia.enabled", true)
	v.SetDefault("search.wikipedia.language", "ar")

	v.SetDefault("thinking.completion_timeout", 90*time.Second)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.dir", ".deepthink")

	v.SetDefault("log.level", "info")
}

// loadConfig decodes v into a Config and fills the API key from secrets
// when none is configured.
func loadConfig(v *viper.Viper, secretValues map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	secrets.ApplyAPIKey(&cfg.LLM, secretValues)
	return cfg, nil
}

// newLogger builds the process logger. Logs go to w so stdout stays clean
// for command output.
func newLogger(cfg types.Config, w io.Writer) *slog.Logger {
	return logging.New(cfg.Log.Level, w)
}
