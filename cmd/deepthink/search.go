// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevencode/deepthink/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run the web search aggregator alone",
	Long: `Search queries every enabled provider (DuckDuckGo, Wikipedia) in
parallel, merges the results in provider order, drops duplicate URLs and
keeps the top results. It prints the same digest the gather stage embeds
in its prompt, or JSON with --json.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	providers := search.NewProviders(cfg.Search, logger)
	if len(providers) == 0 {
		return fmt.Errorf("no search providers enabled: set search.duckduckgo.enabled or search.wikipedia.enabled")
	}
	agg := search.NewAggregator(providers,
		search.WithMaxResults(cfg.Search.MaxResults),
		search.WithLogger(logger))

	resp, err := agg.Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	fmt.Fprintln(out, search.FormatResults(resp))
	return nil
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
