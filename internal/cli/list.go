package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbsclarity/mbs-clarity/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items",
		Run:   runList,
	}

	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().StringP("group", "g", "", "Filter by group code")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Int("offset", 0, "Skip this many items")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	group, _ := cmd.Flags().GetString("group")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	items, err := s.List(cmd.Context(), store.ListParams{
		Category: category,
		Group:    group,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		exitErr("list", err)
	}

	if textOutput() {
		for _, it := range items {
			fmt.Printf("%s\t%s\t%s\n", it.ItemNum, it.GroupCode, truncate(it.Description, 80))
		}
		return
	}

	if len(items) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(items)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
