// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/sevencode/deepthink/internal/history"
	"github.com/sevencode/deepthink/internal/intent"
	"github.com/sevencode/deepthink/internal/llm"
	"github.com/sevencode/deepthink/internal/search"
	"github.com/sevencode/deepthink/internal/thinking"
	"github.com/sevencode/deepthink/pkg/types"
)

var thinkCmd = &cobra.Command{
	Use:   "think <query>",
	Short: "Answer a question through the five-stage reasoning pipeline",
	Long: `Think runs the deep thinking pipeline on a query and prints the stage
transcript followed by the final answer. Queries that mention news, dates,
definitions or similar trigger a live web search during the gather stage.

The run is archived in the local history database unless --no-history is
given or history.enabled is false.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runThink,
}

func runThink(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("query required")
	}
	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format); err != nil {
		return err
	}
	noHistory, _ := cmd.Flags().GetBool("no-history")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	out := cmd.OutOrStdout()

	in := intent.Classify(query)
	if in.Harmful {
		logger.Warn("query refused", "keyword", in.HarmfulKeyword)
		fmt.Fprintln(out, intent.RefusalMessage(in.HarmfulKeyword))
		return nil
	}

	completer, err := llm.NewCompleter(cfg.LLM)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result := newEngine(cfg, completer, logger).Run(ctx, query)
	if err := writeResult(out, format, result); err != nil {
		return err
	}

	if cfg.History.Enabled && !noHistory {
		// Archiving is best effort; the answer is already printed.
		if err := archiveRun(ctx, cfg.History, completer, query, result, cmd.ErrOrStderr()); err != nil {
			logger.Warn("could not archive run", "error", err)
		}
	}
	return nil
}

// newEngine wires the pipeline, its search aggregator and the degraded
// fallback from cfg.
func newEngine(cfg types.Config, completer llm.Completer, logger *slog.Logger) *thinking.Engine {
	var searcher thinking.WebSearcher
	if providers := search.NewProviders(cfg.Search, logger); len(providers) > 0 {
		searcher = search.NewAggregator(providers,
			search.WithMaxResults(cfg.Search.MaxResults),
			search.WithLogger(logger))
	}

	pipeline := thinking.NewPipeline(completer, searcher,
		thinking.WithCompletionTimeout(cfg.Thinking.CompletionTimeout),
		thinking.WithPipelineLogger(logger))
	degraded := thinking.NewDegraded(completer, cfg.Thinking.CompletionTimeout)
	return thinking.NewEngine(pipeline, degraded, logger)
}

func validateFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use text, json or yaml", format)
	}
}

// writeResult prints result in the requested format.
func writeResult(w io.Writer, format string, result types.DeepThinkingResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	}

	if result.Degraded && result.Thinking != "" {
		fmt.Fprintf(w, "🧠 عملية التفكير العميق:\n\n%s\n\n", result.Thinking)
	} else {
		fmt.Fprint(w, thinking.Format(result))
	}
	fmt.Fprintln(w, result.Answer)
	return nil
}

// archiveRun stores the run with a generated title and any user facts
// found in the query.
func archiveRun(ctx context.Context, cfg types.HistoryConfig, completer llm.Completer, query string, result types.DeepThinkingResult, w io.Writer) error {
	store, err := history.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// The pipeline context may already be spent; archiving gets its own budget.
	titleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	title := thinking.GenerateTitle(titleCtx, completer, query)

	run, err := store.SaveRun(titleCtx, history.NewRun(title, query, result, thinking.Format(result)))
	if err != nil {
		return err
	}

	added, err := store.SaveFacts(titleCtx, factsFromQuery(query))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Saved run %s (%s)", run.ID, run.Title)
	if added > 0 {
		fmt.Fprintf(w, ", %d new fact(s)", added)
	}
	fmt.Fprintln(w)
	return nil
}

func factsFromQuery(query string) []history.Fact {
	extracted := intent.ExtractFacts(query)
	facts := make([]history.Fact, len(extracted))
	for i, f := range extracted {
		facts[i] = history.Fact{Kind: string(f.Kind), Value: f.Value}
	}
	return facts
}

func init() {
	thinkCmd.Flags().String("format", "text", "output format: text, json or yaml")
	thinkCmd.Flags().Bool("no-history", false, "do not archive this run")
	thinkCmd.Flags().Duration("timeout", 0, "overall deadline for the run (0 = none)")

	rootCmd.AddCommand(thinkCmd)
}
