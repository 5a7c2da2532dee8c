package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckhand-io/deckhand/internal/catalog"
)

var themesDir string

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available themes",
	Long: `List the visual themes presentations can use.

Built-in themes ship with deckhand. Custom themes are YAML files with
id, colors, and fonts sections; point --dir at a directory of them to
include them in the listing. A custom theme with a built-in's id
shadows it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.New()
		if themesDir != "" {
			if err := cat.LoadThemeDir(themesDir); err != nil {
				return fmt.Errorf("load themes from %s: %w", themesDir, err)
			}
		}

		fmt.Printf("%-12s %-22s %-9s %s\n", "ID", "NAME", "PRIMARY", "DESCRIPTION")
		for _, t := range cat.Themes() {
			id := t.ID
			if t.Custom {
				id += "*"
			}
			fmt.Printf("%-12s %-22s %-9s %s\n", id, t.Name, t.Colors.Primary, t.Description)
		}
		if themesDir != "" {
			fmt.Println("\n* custom theme")
		}
		return nil
	},
}

func init() {
	themesCmd.Flags().StringVar(&themesDir, "dir", "", "Directory of custom theme YAML files")
}
