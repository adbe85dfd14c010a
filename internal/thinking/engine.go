// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package thinking

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sevencode/deepthink/internal/logging"
	"github.com/sevencode/deepthink/pkg/types"
)

// ApologyAnswer is returned when every strategy failed.
const ApologyAnswer = "عذراً، حدث خطأ تقني. حاول مرة أخرى."

// Strategy produces a result for a query or fails.
type Strategy interface {
	Run(ctx context.Context, query string) (types.DeepThinkingResult, error)
}

// Engine is the fallback controller. It runs the primary strategy once and,
// if that fails, the degraded strategy once. It never returns an error.
type Engine struct {
	primary  Strategy
	degraded Strategy
	logger   *slog.Logger
}

// NewEngine builds an Engine. degraded may be nil, in which case a primary
// failure goes straight to the apology.
func NewEngine(primary, degraded Strategy, logger *slog.Logger) *Engine {
	return &Engine{primary: primary, degraded: degraded, logger: logging.OrDiscard(logger)}
}

// Run always returns a result with some answer text and a confidence in
// [0,100].
func (e *Engine) Run(ctx context.Context, query string) types.DeepThinkingResult {
	result, err := e.primary.Run(ctx, query)
	if err == nil {
		return result
	}
	e.logger.Error("deep thinking failed", "query", query, "error", err)

	if errors.Is(err, ErrEmptyQuery) || ctx.Err() != nil || e.degraded == nil {
		return apology()
	}

	e.logger.Warn("falling back to degraded thinking", "query", query)
	result, err = e.degraded.Run(ctx, query)
	if err != nil {
		e.logger.Error("degraded thinking failed", "query", query, "error", err)
		return apology()
	}
	return result
}

// apology is the terminal failure result. Confidence is left at zero.
func apology() types.DeepThinkingResult {
	return types.DeepThinkingResult{
		Steps:    []types.ThinkingStep{},
		Answer:   ApologyAnswer,
		Degraded: true,
	}
}
