// Package main provides the entry point for the rbstress CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbtree/pkg/version"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "rbstress",
		Short: "Rbstress - red-black tree stress and verification tool",
		Long: `Rbstress exercises the red-black tree backends under load.

Commands:
  stress    Insert a pseudo-random key stream and verify the invariants
  sweep     Insert paired key ranges, then delete and verify probe keys`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	// Add commands.
	rootCmd.AddCommand(newStressCommand())
	rootCmd.AddCommand(newSweepCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "rbstress %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
