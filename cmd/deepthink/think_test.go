// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/sevencode/deepthink/internal/history"
	"github.com/sevencode/deepthink/internal/llm"
	"github.com/sevencode/deepthink/internal/thinking"
	"github.com/sevencode/deepthink/pkg/types"
)

// newChatServer answers every chat completion with reply, or with HTTP 500
// when reply is empty.
func newChatServer(t *testing.T, reply string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if reply == "" {
			http.Error(w, `{"error":{"message":"down"}}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": reply}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig(baseURL string) types.Config {
	return types.Config{
		LLM: types.LLMConfig{
			Provider:   types.ProviderOpenAI,
			BaseURL:    baseURL,
			APIKey:     "test-key",
			Timeout:    5 * time.Second,
			MaxRetries: 1,
		},
		Thinking: types.ThinkingConfig{CompletionTimeout: 5 * time.Second},
	}
}

// --- newEngine ---

func TestNewEngineFullRun(t *testing.T) {
	srv, calls := newChatServer(t, "نص الإجابة مع ثقة 77%")
	cfg := testConfig(srv.URL)

	completer, err := llm.NewCompleter(cfg.LLM)
	require.NoError(t, err)

	// Search providers are disabled in cfg, so no network beyond the fake.
	result := newEngine(cfg, completer, nil).Run(context.Background(), "ما هي أحدث تطورات الذكاء الاصطناعي؟")

	assert.Len(t, result.Steps, 4)
	assert.Equal(t, 77, result.Confidence)
	assert.False(t, result.UsedWebSearch)
	assert.False(t, result.Degraded)
	assert.Equal(t, int32(4), atomic.LoadInt32(calls))
}

func TestNewEngineTerminalFailure(t *testing.T) {
	srv, _ := newChatServer(t, "")
	cfg := testConfig(srv.URL)

	completer, err := llm.NewCompleter(cfg.LLM)
	require.NoError(t, err)

	result := newEngine(cfg, completer, nil).Run(context.Background(), "سؤال")
	assert.Equal(t, thinking.ApologyAnswer, result.Answer)
	assert.Empty(t, result.Steps)
}

// --- writeResult ---

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "yaml"} {
		assert.NoError(t, validateFormat(f))
	}
	assert.Error(t, validateFormat("xml"))
}

func sampleThinkResult() types.DeepThinkingResult {
	return types.DeepThinkingResult{
		Thinking: "\nالمرحلة 1 - تحليل السؤال:\nتحليل\n",
		Steps: []types.ThinkingStep{
			{Index: 1, Title: thinking.TitleAnalyze, Content: "تحليل", Duration: 2 * time.Millisecond},
		},
		Answer:        "الإجابة",
		Confidence:    80,
		UsedWebSearch: true,
	}
}

func TestWriteResultText(t *testing.T) {
	var buf bytes.Buffer
	result := sampleThinkResult()
	require.NoError(t, writeResult(&buf, "text", result))
	assert.Equal(t, thinking.Format(result)+"الإجابة\n", buf.String())
}

func TestWriteResultTextDegraded(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, "text", types.DeepThinkingResult{
		Thinking: "تفكير", Answer: "جواب", Degraded: true, Steps: []types.ThinkingStep{},
	}))
	assert.Equal(t, "🧠 عملية التفكير العميق:\n\nتفكير\n\nجواب\n", buf.String())
}

func TestWriteResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, "json", sampleThinkResult()))

	var got types.DeepThinkingResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleThinkResult(), got)
}

func TestWriteResultYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, "yaml", sampleThinkResult()))
	assert.Contains(t, buf.String(), "confidence: 80")
	assert.Contains(t, buf.String(), "used_web_search: true")

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "الإجابة", got["answer"])
}

// --- archiveRun ---

func TestArchiveRun(t *testing.T) {
	dir := t.TempDir()
	completer := llm.CompleterFunc(func(context.Context, []types.Message) (string, error) {
		return "عنوان قصير", nil
	})

	var stderr bytes.Buffer
	query := "اسمي سارة وأحب الفلك"
	err := archiveRun(context.Background(), types.HistoryConfig{Enabled: true, Dir: dir},
		completer, query, sampleThinkResult(), &stderr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stderr.String(), "Saved run "))

	store, err := history.NewStore(types.HistoryConfig{Dir: dir})
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "عنوان قصير", runs[0].Title)
	assert.Equal(t, query, runs[0].Query)
	assert.Equal(t, 80, runs[0].Confidence)
	assert.Contains(t, runs[0].Transcript, "مستوى الثقة")

	facts, err := store.ListFacts(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, facts)
}

func TestFactsFromQuery(t *testing.T) {
	facts := factsFromQuery("my name is Omar")
	require.Len(t, facts, 1)
	assert.Equal(t, "الاسم", facts[0].Kind)
	assert.Equal(t, "Omar", facts[0].Value)

	assert.Empty(t, factsFromQuery("ما هي الحوسبة الكمومية؟"))
}
