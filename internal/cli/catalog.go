package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCatalogCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Validate and list the kitchen catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Ingredients:")
			for i, ing := range catalog.Ingredients {
				fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, ing.Name, ing.ID)
			}
			fmt.Fprintln(out, "Recipes:")
			for _, r := range catalog.Recipes {
				fmt.Fprintf(out, "  %s: %s\n", r.Name, strings.Join(r.Ingredients, ", "))
			}
			return nil
		},
	}
}
