// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevencode/deepthink/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect archived runs and remembered user facts",
	Long: `History reads the local SQLite archive written by think. Use
subcommands to list runs, show one run in full, list remembered user
facts, or export everything to YAML or JSON.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		contains, _ := cmd.Flags().GetString("contains")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(cmd.Context(), history.ListOptions{Limit: limit, Contains: contains})
		if err != nil {
			return err
		}
		return writeRuns(cmd.OutOrStdout(), runs, jsonOutput)
	},
}

func writeRuns(w io.Writer, runs []history.Run, jsonOutput bool) error {
	if jsonOutput {
		if runs == nil {
			runs = []history.Run{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-19s  %-4s  %-3s  %s\n", "ID", "Created", "Conf", "Web", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, r := range runs {
		web := "no"
		if r.UsedWebSearch {
			web = "yes"
		}
		fmt.Fprintf(w, "%-8s  %-19s  %3d%%  %-3s  %s\n",
			shortID(r.ID), r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Confidence, web, truncate(r.Title, 40))
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one archived run (a unique ID prefix is enough)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeRun(cmd.OutOrStdout(), run, jsonOutput)
	},
}

func writeRun(w io.Writer, run history.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}
	fmt.Fprintf(w, "%s\n", run.Title)
	fmt.Fprintf(w, "id: %s  created: %s\n\n", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "%s\n\n", run.Query)
	fmt.Fprint(w, run.Transcript)
	fmt.Fprintln(w, run.Answer)
	return nil
}

// --- facts subcommand ---

var historyFactsCmd = &cobra.Command{
	Use:   "facts",
	Short: "List user facts remembered from past queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		facts, err := store.ListFacts(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			if facts == nil {
				facts = []history.Fact{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(facts)
		}
		if len(facts) == 0 {
			fmt.Fprintln(out, "No facts remembered.")
			return nil
		}
		for _, f := range facts {
			fmt.Fprintf(out, "- %s: %s\n", f.Kind, f.Value)
		}
		return nil
	},
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the archive to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		w := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		switch format {
		case "yaml", "":
			err = store.ExportYAML(cmd.Context(), w)
		case "json":
			err = store.ExportJSON(cmd.Context(), w)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
		}
		return nil
	},
}

// --- shared helpers ---

func openHistory() (*history.Store, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.History)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of runs")
	historyListCmd.Flags().String("contains", "", "only runs whose query or answer contains this text")
	historyListCmd.Flags().Bool("json", false, "output as JSON")

	historyShowCmd.Flags().Bool("json", false, "output as JSON")
	historyFactsCmd.Flags().Bool("json", false, "output as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("output", "", "write to this file instead of stdout")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyFactsCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
