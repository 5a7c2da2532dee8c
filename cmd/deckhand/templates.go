package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deckhand-io/deckhand/internal/catalog"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List presentation templates",
	Long: `List the structure archetypes 'generate --type' accepts.

Each template carries a recommended theme and an ordered slide
structure. The engine merges both into the request; an explicit
--theme wins over the recommendation.`,
	Run: func(cmd *cobra.Command, args []string) {
		cat := catalog.New()
		for _, t := range cat.Types() {
			fmt.Printf("%s (theme: %s)\n", t.ID, t.RecommendedTheme)
			fmt.Printf("  %s\n", t.Description)
			kinds := make([]string, 0, len(t.SlideStructure))
			for _, ref := range t.SlideStructure {
				kinds = append(kinds, ref.Kind)
			}
			fmt.Printf("  Slides: %s\n\n", strings.Join(kinds, ", "))
		}
	},
}
