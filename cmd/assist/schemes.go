package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scheme-assist/backend/internal/catalog"
)

func newSchemesCmd(_ *app) *cobra.Command {
	var (
		category       string
		listCategories bool
	)

	cmd := &cobra.Command{
		Use:   "schemes [query]",
		Short: "Search the scheme catalog",
		Long: `Search schemes by name, category or description. Matching ignores case.

Examples:
  assist schemes pension
  assist schemes --category Health
  assist schemes --categories`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if listCategories {
				for _, c := range catalog.Categories() {
					fmt.Fprintln(out, c)
				}
				return nil
			}

			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			results := catalog.Search(query, category)
			if len(results) == 0 {
				fmt.Fprintln(out, "No schemes found.")
				return nil
			}
			for _, s := range results {
				printScheme(out, s)
			}
			fmt.Fprintf(out, "%d scheme(s)\n", len(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show schemes in this category")
	cmd.Flags().BoolVar(&listCategories, "categories", false, "list the known categories and exit")
	return cmd
}

func printScheme(w io.Writer, s catalog.Scheme) {
	fmt.Fprintf(w, "[%d] %s (%s)\n", s.ID, s.Name, s.Category)
	fmt.Fprintf(w, "    %s\n", s.Description)
	fmt.Fprintf(w, "    Eligibility: %s\n", s.Eligibility)
	fmt.Fprintf(w, "    Benefits: %s\n", s.Benefits)
	if s.StateSpecific {
		fmt.Fprintf(w, "    State: %s\n", s.State)
	}
	fmt.Fprintln(w)
}
