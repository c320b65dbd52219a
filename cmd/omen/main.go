// Package main provides the entry point for the omen CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/panbanda/omen/cmd/omen/commands"
	"github.com/panbanda/omen/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "omen",
		Short: "omen analyzes a repository's history and source for risk and structure",
		Long: `omen ingests a repository's working tree and git history and produces
structured reports on code quality, history-derived risk, and semantic
structure.

Commands:
  analyze   Run a single history/composite analyzer (churn, ownership,
            coupling, hotspot, defect)
  mutate    Run mutation testing against the repository's test suite
  search    Build and query the semantic (TF-IDF) search index
  mcp       Start the MCP server exposing these analyzers as tools`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&commands.ConfigPath, "config", "", "path to an omen config file (default: search ./.omen.yaml, ./config, /etc/omen)")

	rootCmd.AddCommand(
		commands.NewAnalyzeCommand(),
		commands.NewMutateCommand(),
		commands.NewSearchCommand(),
		commands.NewMCPCommand(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "omen %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
