// Package cmd defines the sourcedesk command-line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sourcedesk",
	Short: "Records management for investigative journalists",
	Long: `Sourcedesk tracks sources, interviews, stories, projects, and
public records requests, and automates composing and sending request
emails from uploaded templates.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
