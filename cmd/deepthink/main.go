// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deepthink CLI. Each subcommand
// exposes one part of the reasoning core: think runs the full pipeline,
// search and classify run its building blocks alone, and history reads
// the local run archive.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevencode/deepthink/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the deepthink CLI.
var rootCmd = &cobra.Command{
	Use:   "deepthink",
	Short: "Multi-stage reasoning over a language model with live web search",
	Long: `deepthink answers a question through a five-stage reasoning pipeline:
analyze the question, gather information (searching DuckDuckGo and Wikipedia
when the question calls for it), reason, verify, and formulate the answer.
If any stage fails, a simpler two-call strategy answers instead.

The language model is any OpenAI-compatible chat completions endpoint or the
Anthropic Messages API. API keys are read from the config file, from
DEEPTHINK_LLM_API_KEY, or from .secrets/openai-api-key and
.secrets/anthropic-api-key.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", nil)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./deepthink.yaml or ~/.config/deepthink/deepthink.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deepthink")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deepthink"))
		}
	}

	viper.SetEnvPrefix("DEEPTHINK")
	viper.SetEnvKeyReplacer(envKeyReplacer())
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
