// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package thinking runs the five-stage deep thinking pipeline over a
// text-completion oracle, with a two-call degraded fallback and a
// human-readable transcript formatter.
package thinking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevencode/deepthink/internal/intent"
	"github.com/sevencode/deepthink/internal/llm"
	"github.com/sevencode/deepthink/internal/logging"
	"github.com/sevencode/deepthink/internal/search"
	"github.com/sevencode/deepthink/pkg/types"
)

// ErrEmptyQuery is returned when the query is blank.
var ErrEmptyQuery = errors.New("empty query")

// Stage titles.
const (
	TitleAnalyze = "تحليل السؤال"
	TitleGather  = "جمع المعلومات"
	TitleReason  = "التفكير المنطقي"
	TitleVerify  = "التحقق والمراجعة"
)

// Placeholders used when the oracle answers with empty text.
const (
	placeholderAnalyze   = "تحليل السؤال..."
	placeholderReason    = "التفكير المنطقي..."
	placeholderVerify    = "المراجعة والتحقق..."
	placeholderFormulate = "عذراً، حدث خطأ في صياغة الإجابة."
)

// Stage 2 content fragments.
const (
	gatherHeader   = "جمع المعلومات من قاعدة المعرفة...\n\n"
	gatherSearched = "✅ تم البحث على الويب\n"
	gatherCountFmt = "📊 عدد النتائج: %d\n\n"
	gatherFailed   = "⚠️ فشل البحث على الويب، سأستخدم المعرفة الداخلية\n"
	gatherNoSearch = "✅ المعلومات متوفرة في قاعدة المعرفة الداخلية\n"
)

const transcriptStepFmt = "المرحلة %d - %s:\n%s\n"

// WebSearcher runs a live search. The Aggregator satisfies it.
type WebSearcher interface {
	Search(ctx context.Context, query string) (types.SearchResponse, error)
}

// oracle wraps a Completer with a per-call budget.
type oracle struct {
	completer llm.Completer
	timeout   time.Duration
}

// ask sends prompt as a single user message. Empty output is replaced by
// placeholder.
func (o oracle) ask(ctx context.Context, prompt, placeholder string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	text, err := o.completer.Complete(ctx, []types.Message{types.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return placeholder, nil
	}
	return text, nil
}

// accumulator is the state threaded through the stages. Every stage
// returns a new value; earlier values are never modified.
type accumulator struct {
	query         string
	steps         []types.ThinkingStep
	searchResults string
	usedWebSearch bool
}

// with returns a copy of a with step appended.
func (a accumulator) with(step types.ThinkingStep) accumulator {
	steps := make([]types.ThinkingStep, len(a.steps), len(a.steps)+1)
	copy(steps, a.steps)
	a.steps = append(steps, step)
	return a
}

// content returns the text of the 1-based stage index, or "".
func (a accumulator) content(index int) string {
	for _, s := range a.steps {
		if s.Index == index {
			return s.Content
		}
	}
	return ""
}

// Transcript concatenates step contents in stage order.
func Transcript(steps []types.ThinkingStep) string {
	var b strings.Builder
	b.WriteString("\n")
	for i, s := range steps {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, transcriptStepFmt, s.Index, s.Title, s.Content)
	}
	return b.String()
}

// stage is one trace-producing step of the pipeline.
type stage func(ctx context.Context, acc accumulator) (accumulator, error)

// Pipeline is the five-stage reasoning strategy. It holds no per-run state
// and is safe for concurrent use.
type Pipeline struct {
	oracle      oracle
	searcher    WebSearcher
	needsSearch func(string) bool
	logger      *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithCompletionTimeout bounds every completion call.
func WithCompletionTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.oracle.timeout = d }
}

// WithSearchClassifier replaces the search necessity check.
func WithSearchClassifier(fn func(string) bool) PipelineOption {
	return func(p *Pipeline) { p.needsSearch = fn }
}

// WithPipelineLogger sets the logger.
func WithPipelineLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = logging.OrDiscard(l) }
}

// NewPipeline builds a pipeline. searcher may be nil, in which case stage 2
// always answers from internal knowledge.
func NewPipeline(completer llm.Completer, searcher WebSearcher, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		oracle:      oracle{completer: completer},
		searcher:    searcher,
		needsSearch: intent.NeedsSearch,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the stages in order. Any completion failure aborts the run
// and is returned wrapped with the failing stage; no partial result is
// returned.
func (p *Pipeline) Run(ctx context.Context, query string) (types.DeepThinkingResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.DeepThinkingResult{}, ErrEmptyQuery
	}

	p.logger.Info("deep thinking started", "query", query)
	start := time.Now()

	acc := accumulator{query: query}
	stages := []stage{p.analyze, p.gather, p.reason, p.verify}
	for _, run := range stages {
		if err := ctx.Err(); err != nil {
			return types.DeepThinkingResult{}, err
		}
		var err error
		if acc, err = run(ctx, acc); err != nil {
			return types.DeepThinkingResult{}, err
		}
	}

	if err := ctx.Err(); err != nil {
		return types.DeepThinkingResult{}, err
	}
	transcript := Transcript(acc.steps)
	answer, err := p.formulate(ctx, acc, transcript)
	if err != nil {
		return types.DeepThinkingResult{}, err
	}

	result := types.DeepThinkingResult{
		Thinking:      transcript,
		Steps:         acc.steps,
		Answer:        answer,
		Confidence:    ExtractConfidence(answer),
		UsedWebSearch: acc.usedWebSearch,
		SearchResults: acc.searchResults,
	}

	p.logger.Info("deep thinking completed",
		"query", query,
		"duration", time.Since(start),
		"confidence", result.Confidence,
		"used_web_search", result.UsedWebSearch)
	return result, nil
}

// analyze is stage 1.
func (p *Pipeline) analyze(ctx context.Context, acc accumulator) (accumulator, error) {
	start := time.Now()
	prompt, err := renderPrompt(analyzePromptTmpl, promptData{Query: acc.query})
	if err != nil {
		return acc, err
	}
	content, err := p.oracle.ask(ctx, prompt, placeholderAnalyze)
	if err != nil {
		return acc, fmt.Errorf("stage 1 (%s): %w", TitleAnalyze, err)
	}
	return acc.with(newStep(1, TitleAnalyze, content, start)), nil
}

// gather is stage 2. It never fails on search errors; only cancellation
// aborts it.
func (p *Pipeline) gather(ctx context.Context, acc accumulator) (accumulator, error) {
	start := time.Now()
	var b strings.Builder
	b.WriteString(gatherHeader)

	if p.searcher != nil && p.needsSearch(acc.query) {
		p.logger.Info("web search needed", "query", acc.query)
		resp, err := p.searcher.Search(ctx, acc.query)
		switch {
		case err != nil && ctx.Err() != nil:
			return acc, ctx.Err()
		case err != nil:
			p.logger.Error("web search failed", "query", acc.query, "error", err)
			b.WriteString(gatherFailed)
		default:
			digest := search.FormatResults(resp)
			b.WriteString(gatherSearched)
			fmt.Fprintf(&b, gatherCountFmt, len(resp.Results))
			b.WriteString(digest)
			acc.searchResults = digest
			acc.usedWebSearch = true
		}
	} else {
		b.WriteString(gatherNoSearch)
	}

	return acc.with(newStep(2, TitleGather, b.String(), start)), nil
}

// reason is stage 3.
func (p *Pipeline) reason(ctx context.Context, acc accumulator) (accumulator, error) {
	start := time.Now()
	prompt, err := renderPrompt(reasonPromptTmpl, promptData{
		Query:       acc.query,
		Analysis:    acc.content(1),
		Information: acc.content(2),
	})
	if err != nil {
		return acc, err
	}
	content, err := p.oracle.ask(ctx, prompt, placeholderReason)
	if err != nil {
		return acc, fmt.Errorf("stage 3 (%s): %w", TitleReason, err)
	}
	return acc.with(newStep(3, TitleReason, content, start)), nil
}

// verify is stage 4.
func (p *Pipeline) verify(ctx context.Context, acc accumulator) (accumulator, error) {
	start := time.Now()
	prompt, err := renderPrompt(verifyPromptTmpl, promptData{
		Query:     acc.query,
		Reasoning: acc.content(3),
	})
	if err != nil {
		return acc, err
	}
	content, err := p.oracle.ask(ctx, prompt, placeholderVerify)
	if err != nil {
		return acc, fmt.Errorf("stage 4 (%s): %w", TitleVerify, err)
	}
	return acc.with(newStep(4, TitleVerify, content, start)), nil
}

// formulate is stage 5. It produces the answer rather than a step.
func (p *Pipeline) formulate(ctx context.Context, acc accumulator, transcript string) (string, error) {
	prompt, err := renderPrompt(formulatePromptTmpl, promptData{
		Query:         acc.query,
		Transcript:    transcript,
		SearchResults: acc.searchResults,
	})
	if err != nil {
		return "", err
	}
	answer, err := p.oracle.ask(ctx, prompt, placeholderFormulate)
	if err != nil {
		return "", fmt.Errorf("stage 5 (formulate): %w", err)
	}
	return answer, nil
}

func newStep(index int, title, content string, start time.Time) types.ThinkingStep {
	return types.ThinkingStep{
		Index:    index,
		Title:    title,
		Content:  content,
		Duration: time.Since(start),
	}
}
