// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files. The
// filename is the key name and the trimmed file contents are the value.
//
// Recognized key files: openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sevencode/deepthink/internal/logging"
	"github.com/sevencode/deepthink/pkg/types"
)

// Key file names.
const (
	OpenAIKey    = "openai-api-key"
	AnthropicKey = "anthropic-api-key"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error. Unreadable files are
// logged and skipped.
func Load(dir string, logger *slog.Logger) (map[string]string, error) {
	logger = logging.OrDiscard(logger)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// KeyName returns the secret file that holds the API key for provider.
func KeyName(provider types.LLMProvider) string {
	if provider == types.ProviderAnthropic {
		return AnthropicKey
	}
	return OpenAIKey
}

// ApplyAPIKey fills cfg.APIKey from secrets when it is not already set.
// It reports whether a key was taken from secrets.
func ApplyAPIKey(cfg *types.LLMConfig, secrets map[string]string) bool {
	if cfg.APIKey != "" {
		return false
	}
	key, ok := secrets[KeyName(cfg.Provider)]
	if !ok {
		return false
	}
	cfg.APIKey = key
	return true
}
