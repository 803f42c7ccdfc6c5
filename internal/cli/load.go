package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbsclarity/mbs-clarity/internal/ingest"
	"github.com/mbsclarity/mbs-clarity/internal/pipeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "load [path]",
		Short: "Load a schedule release into the store",
		Long: `Load a schedule release, replacing everything in the store.

The source is given with --csv or --xml, or as a positional path whose
extension names the format. Rows without an item number are skipped and
logged. If the file cannot be read or parsed the store is left unchanged.`,
		Args: cobra.MaximumNArgs(1),
		Run:  runLoad,
	}

	cmd.Flags().String("csv", "", "CSV source file")
	cmd.Flags().String("xml", "", "XML source file")
	cmd.MarkFlagsMutuallyExclusive("csv", "xml")

	RootCmd.AddCommand(cmd)
}

func runLoad(cmd *cobra.Command, args []string) {
	path, format, err := sourceFromFlags(cmd, args)
	if err != nil {
		exitErr("load", err)
	}

	log := newLogger()
	defer log.Sync()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sum, err := pipeline.New(s, library(), log).Load(cmd.Context(), path, format)
	if err != nil {
		exitErr("load", err)
	}

	printJSON(sum)
}

// sourceFromFlags resolves the source path and format from --csv, --xml or
// a positional path.
func sourceFromFlags(cmd *cobra.Command, args []string) (string, ingest.Format, error) {
	csvPath, _ := cmd.Flags().GetString("csv")
	xmlPath, _ := cmd.Flags().GetString("xml")

	switch {
	case csvPath != "" && len(args) == 0:
		return csvPath, ingest.FormatCSV, nil
	case xmlPath != "" && len(args) == 0:
		return xmlPath, ingest.FormatXML, nil
	case len(args) == 1 && csvPath == "" && xmlPath == "":
		format, err := pipeline.FormatFromPath(args[0])
		return args[0], format, err
	}
	return "", "", fmt.Errorf("give exactly one source: --csv PATH, --xml PATH or a path ending in .csv or .xml")
}
