package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "refs CODE",
		Short: "List relations that point at an item",
		Long:  "List relations from other items whose target is CODE, e.g. every item that excludes it or derives its fee from it.",
		Args:  cobra.ExactArgs(1),
		Run:   runRefs,
	}

	cmd.Flags().StringP("kind", "k", "", "Relation kind: excludes, generic_excludes, same_day_excludes, allows_same_day, prerequisite, derived_fee_ref")

	RootCmd.AddCommand(cmd)
}

func runRefs(cmd *cobra.Command, args []string) {
	kind, _ := cmd.Flags().GetString("kind")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	refs, err := s.Refs(cmd.Context(), args[0], model.RelationKind(kind))
	if err != nil {
		exitErr("refs", err)
	}

	if textOutput() {
		for _, r := range refs {
			fmt.Printf("%s\t%s\n", r.ItemNum, r.Kind)
		}
		return
	}
	printJSON(refs)
}
