// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package thinking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sevencode/deepthink/pkg/types"
)

type strategyFunc func(ctx context.Context, query string) (types.DeepThinkingResult, error)

func (f strategyFunc) Run(ctx context.Context, query string) (types.DeepThinkingResult, error) {
	return f(ctx, query)
}

func failing(err error) strategyFunc {
	return func(context.Context, string) (types.DeepThinkingResult, error) {
		return types.DeepThinkingResult{}, err
	}
}

// --- Engine ---

func TestEnginePrimarySucceeds(t *testing.T) {
	want := types.DeepThinkingResult{Answer: "ok", Confidence: 90}
	degradedCalled := false
	e := NewEngine(
		strategyFunc(func(context.Context, string) (types.DeepThinkingResult, error) { return want, nil }),
		strategyFunc(func(context.Context, string) (types.DeepThinkingResult, error) {
			degradedCalled = true
			return types.DeepThinkingResult{}, nil
		}),
		nil)

	assert.Equal(t, want, e.Run(context.Background(), "q"))
	assert.False(t, degradedCalled)
}

func TestEngineStageThreeFailureUsesDegraded(t *testing.T) {
	m := &mockCompleter{}
	m.Test(t)
	m.On("Complete", mock.Anything, prompt(analyzeMarker)).Return("analysis text", nil).Once()
	m.On("Complete", mock.Anything, prompt(reasonMarker)).Return("", errOracle).Once()
	m.On("Complete", mock.Anything, prompt("قم بتحليل هذا السؤال خطوة بخطوة")).Return("thinking aloud", nil).Once()
	m.On("Complete", mock.Anything, prompt("بناءً على هذا التفكير", "thinking aloud")).Return("degraded answer 60%", nil).Once()

	searcher := &fakeSearcher{resp: types.SearchResponse{Results: []types.SearchResult{{URL: "https://x"}}}}
	e := NewEngine(NewPipeline(m, searcher), NewDegraded(m, 0), nil)

	result := e.Run(context.Background(), "ابحث عن آخر أخبار الذكاء الاصطناعي")
	m.AssertExpectations(t)

	// Stage 2 did search, but the degraded result must not claim it.
	assert.Equal(t, 1, searcher.calls)
	assert.False(t, result.UsedWebSearch)
	assert.Empty(t, result.Steps)
	assert.True(t, result.Degraded)
	assert.Equal(t, "degraded answer 60%", result.Answer)
	assert.Equal(t, "thinking aloud", result.Thinking)
	assert.Equal(t, 60, result.Confidence)
}

func TestEngineTerminalFailure(t *testing.T) {
	m := &mockCompleter{}
	m.On("Complete", mock.Anything, mock.Anything).Return("", errOracle)

	e := NewEngine(NewPipeline(m, nil), NewDegraded(m, 0), nil)
	result := e.Run(context.Background(), "سؤال")

	assert.Equal(t, ApologyAnswer, result.Answer)
	assert.True(t, result.Degraded)
	assert.GreaterOrEqual(t, result.Confidence, 0)
	assert.LessOrEqual(t, result.Confidence, 100)
	assert.NotNil(t, result.Steps)
	assert.Empty(t, result.Steps)
	// One pipeline call plus one degraded call, no retries.
	m.AssertNumberOfCalls(t, "Complete", 2)
}

func TestEngineCancelledSkipsDegraded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	degradedCalled := false
	e := NewEngine(
		failing(context.Canceled),
		strategyFunc(func(context.Context, string) (types.DeepThinkingResult, error) {
			degradedCalled = true
			return types.DeepThinkingResult{}, nil
		}),
		nil)

	result := e.Run(ctx, "q")
	assert.False(t, degradedCalled)
	assert.Equal(t, ApologyAnswer, result.Answer)
}

func TestEngineEmptyQuery(t *testing.T) {
	m := &mockCompleter{}
	e := NewEngine(NewPipeline(m, nil), NewDegraded(m, 0), nil)

	result := e.Run(context.Background(), "")
	assert.Equal(t, ApologyAnswer, result.Answer)
	m.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestEngineWithoutDegraded(t *testing.T) {
	e := NewEngine(failing(errors.New("boom")), nil, nil)
	assert.Equal(t, ApologyAnswer, e.Run(context.Background(), "q").Answer)
}

// --- Degraded ---

func TestDegradedRun(t *testing.T) {
	m := &mockCompleter{}
	m.Test(t)
	m.On("Complete", mock.Anything, prompt("\"سؤال\"", "فكر بصوت عالٍ")).Return("", nil).Once()
	m.On("Complete", mock.Anything, prompt(placeholderDegradedThink, "الآن أجب")).Return("answer", nil).Once()

	result, err := NewDegraded(m, 0).Run(context.Background(), "سؤال")
	require.NoError(t, err)
	m.AssertExpectations(t)

	assert.Equal(t, placeholderDegradedThink, result.Thinking)
	assert.Equal(t, "answer", result.Answer)
	assert.Equal(t, DefaultConfidence, result.Confidence)
	assert.False(t, result.UsedWebSearch)
}

func TestDegradedSecondCallFails(t *testing.T) {
	m := &mockCompleter{}
	m.On("Complete", mock.Anything, prompt("فكر بصوت عالٍ")).Return("thinking", nil).Once()
	m.On("Complete", mock.Anything, prompt("الآن أجب")).Return("", errOracle).Once()

	_, err := NewDegraded(m, 0).Run(context.Background(), "سؤال")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "degraded answer call")
}
