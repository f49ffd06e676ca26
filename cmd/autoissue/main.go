// Package main implements the autoissue CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "autoissue",
	Short:   "Drives an external coding agent over a batch of GitHub issues",
	Long:    `autoissue classifies open issues by domain, schedules them across a bounded number of parallel agent runs, and opens a pull request for each one that succeeds.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
}
