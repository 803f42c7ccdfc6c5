package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories with item counts",
		Run:   runCategories,
	}

	RootCmd.AddCommand(cmd)
}

func runCategories(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rows, err := s.Categories(cmd.Context())
	if err != nil {
		exitErr("categories", err)
	}

	if textOutput() {
		for _, c := range rows {
			fmt.Printf("%s\t%d\n", c.Category, c.Count)
		}
		return
	}
	printJSON(rows)
}
