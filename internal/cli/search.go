package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mbsclarity/mbs-clarity/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search item descriptions",
		Long:  "Full-text search over item numbers and descriptions. Accepts FTS5 syntax; anything FTS5 rejects is matched as a plain substring.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query:    query,
		Category: category,
		Limit:    limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if textOutput() {
		for _, r := range results {
			text := r.Snippet
			if text == "" {
				text = truncate(r.Description, 80)
			}
			fmt.Printf("%s\t%s\n", r.ItemNum, text)
		}
		return
	}

	if len(results) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(results)
}
