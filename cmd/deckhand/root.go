package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deckhand",
	Short: "Task-based presentation generator",
	Long: `Deckhand turns a topic and an optional spreadsheet into a finished
.pptx slide deck.

A crew of specialist agents works each request as a task pipeline:
research ingests and analyzes the data, content drafts the outline and
slides, design and charts style the deck and render figures in
parallel, and build assembles the final document.

Charts render from the real numbers in your spreadsheet, themes come
from a built-in catalog (extendable with YAML files), and every run
works fully offline; an Anthropic API key upgrades the writing, it
never gates it.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
