// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevencode/deepthink/internal/intent"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <query>",
	Short: "Show how a query is classified without calling any service",
	Long: `Classify reports whether a query would trigger a web search, whether it
asks about the assistant's identity, whether it would be refused, and which
user facts would be remembered from it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return writeClassification(cmd.OutOrStdout(), strings.Join(args, " "), jsonOutput)
	},
}

// classification is the report printed by classify.
type classification struct {
	Query string `json:"query"`
	intent.Intent
	Facts []intent.Fact `json:"facts"`
}

func writeClassification(w io.Writer, query string, jsonOutput bool) error {
	c := classification{
		Query:  query,
		Intent: intent.Classify(query),
		Facts:  intent.ExtractFacts(query),
	}
	if c.Facts == nil {
		c.Facts = []intent.Fact{}
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	fmt.Fprintf(w, "needs search: %v\n", c.NeedsSearch)
	fmt.Fprintf(w, "identity:     %v\n", c.Identity)
	if c.Harmful {
		fmt.Fprintf(w, "harmful:      true (%s)\n", c.HarmfulKeyword)
	} else {
		fmt.Fprintf(w, "harmful:      false\n")
	}
	for _, f := range c.Facts {
		fmt.Fprintf(w, "fact:         %s = %s\n", f.Kind, f.Value)
	}
	return nil
}

func init() {
	classifyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(classifyCmd)
}
