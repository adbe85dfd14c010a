// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package thinking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sevencode/deepthink/internal/llm"
	"github.com/sevencode/deepthink/pkg/types"
)

const (
	placeholderDegradedThink  = "جاري التفكير..."
	placeholderDegradedAnswer = "عذراً، حدث خطأ."
)

// Degraded is the two-call fallback strategy: one "think step by step"
// call, then one answer call given that thinking. It never searches.
type Degraded struct {
	oracle oracle
}

// NewDegraded builds the fallback strategy. timeout bounds each call; zero
// means no per-call budget.
func NewDegraded(completer llm.Completer, timeout time.Duration) *Degraded {
	return &Degraded{oracle: oracle{completer: completer, timeout: timeout}}
}

// Run performs both calls. The result has no steps and never reports web
// search.
func (d *Degraded) Run(ctx context.Context, query string) (types.DeepThinkingResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.DeepThinkingResult{}, ErrEmptyQuery
	}

	prompt, err := renderPrompt(degradedThinkPromptTmpl, promptData{Query: query})
	if err != nil {
		return types.DeepThinkingResult{}, err
	}
	thinking, err := d.oracle.ask(ctx, prompt, placeholderDegradedThink)
	if err != nil {
		return types.DeepThinkingResult{}, fmt.Errorf("degraded thinking call: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return types.DeepThinkingResult{}, err
	}
	prompt, err = renderPrompt(degradedAnswerPromptTmpl, promptData{Query: query, Thinking: thinking})
	if err != nil {
		return types.DeepThinkingResult{}, err
	}
	answer, err := d.oracle.ask(ctx, prompt, placeholderDegradedAnswer)
	if err != nil {
		return types.DeepThinkingResult{}, fmt.Errorf("degraded answer call: %w", err)
	}

	return types.DeepThinkingResult{
		Thinking:   thinking,
		Steps:      []types.ThinkingStep{},
		Answer:     answer,
		Confidence: ExtractConfidence(answer),
		Degraded:   true,
	}, nil
}
