// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevencode/deepthink/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIKey, "  sk-abc123  \n")
				writeFile(t, dir, AnthropicKey, "sk-ant-xyz\n")
				return dir
			},
			want: map[string]string{
				OpenAIKey:    "sk-abc123",
				AnthropicKey: "sk-ant-xyz",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AnthropicKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{AnthropicKey: "valid-key"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, OpenAIKey, "sk-real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{OpenAIKey: "sk-real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, OpenAIKey, "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "value123", got[OpenAIKey])
	assert.NotContains(t, got, "bad-key")
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, OpenAIKey, KeyName(types.ProviderOpenAI))
	assert.Equal(t, OpenAIKey, KeyName(""))
	assert.Equal(t, AnthropicKey, KeyName(types.ProviderAnthropic))
}

func TestApplyAPIKey(t *testing.T) {
	secrets := map[string]string{OpenAIKey: "from-file", AnthropicKey: "ant-file"}

	cfg := types.LLMConfig{Provider: types.ProviderAnthropic}
	assert.True(t, ApplyAPIKey(&cfg, secrets))
	assert.Equal(t, "ant-file", cfg.APIKey)

	// Explicit configuration wins.
	cfg = types.LLMConfig{APIKey: "from-env"}
	assert.False(t, ApplyAPIKey(&cfg, secrets))
	assert.Equal(t, "from-env", cfg.APIKey)

	cfg = types.LLMConfig{}
	assert.False(t, ApplyAPIKey(&cfg, map[string]string{}))
	assert.Empty(t, cfg.APIKey)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
