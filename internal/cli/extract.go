package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mbsclarity/mbs-clarity/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Run extraction over ad-hoc text",
		Long:  "Run both extractors over a description given as a positional arg or piped via stdin. Nothing is read from or written to the store.",
		Run:   runExtract,
	}

	cmd.Flags().String("item", "0", "Item number to attribute facts to")
	cmd.Flags().String("derived-fee", "", "Derived fee text")

	RootCmd.AddCommand(cmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	itemNum, _ := cmd.Flags().GetString("item")
	derivedFee, _ := cmd.Flags().GetString("derived-fee")

	// Get text: positional arg first, then check stdin
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			text = string(b)
		}
	}

	if strings.TrimSpace(text) == "" && derivedFee == "" {
		exitErr("extract", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	rec := model.Record{ItemNum: itemNum, Description: strings.TrimSpace(text), DerivedFee: derivedFee}
	rels, cons := library().Extract(rec)
	if rels == nil {
		rels = []model.Relation{}
	}
	if cons == nil {
		cons = []model.Constraint{}
	}

	printJSON(model.ItemAggregate{Item: rec, Relations: rels, Constraints: cons})
}
