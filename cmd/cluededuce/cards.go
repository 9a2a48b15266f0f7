package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbettermann/deduction-engine/deck"
)

func newCardsCommand(cfg *config) *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List the card catalog with localized display names",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := deck.LoadCatalog(cfg.CardsPath)
			if err != nil {
				return err
			}

			tag := deck.ParseLocale(locale)
			out := cmd.OutOrStdout()
			for _, category := range deck.Categories() {
				fmt.Fprintln(out, category)
				for _, c := range catalog.ByCategory(category) {
					fmt.Fprintf(out, "  %-15s %s\n", c.ID(), c.DisplayName(tag))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", cfg.Locale, "display name locale")

	return cmd
}
