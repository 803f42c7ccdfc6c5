package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mbsclarity/mbs-clarity/internal/model"
	"github.com/mbsclarity/mbs-clarity/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get CODE[,CODE...]",
		Short: "Show items with their relations and constraints",
		Long:  "Show one or more items joined with their extracted relations and constraints. Unknown codes are reported on stderr.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	var codes []string
	for _, arg := range args {
		for _, c := range strings.Split(arg, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				codes = append(codes, c)
			}
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	var items []model.ItemAggregate
	for _, code := range codes {
		agg, err := s.Get(cmd.Context(), code)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "warning: item %s not found\n", code)
			continue
		}
		if err != nil {
			exitErr("get", err)
		}
		items = append(items, *agg)
	}
	if len(items) == 0 {
		exitErr("get", fmt.Errorf("no matching items: %w", store.ErrNotFound))
	}

	if len(items) == 1 {
		printJSON(items[0])
		return
	}
	printJSON(items)
}
