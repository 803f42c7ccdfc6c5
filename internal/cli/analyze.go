package cli

import (
	"github.com/spf13/cobra"

	"github.com/mbsclarity/mbs-clarity/internal/extract"
	"github.com/mbsclarity/mbs-clarity/internal/pipeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Report extraction coverage without writing",
		Long:  "Parse a source and run extraction exactly as load would, then print coverage figures instead of writing to the store.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runAnalyze,
	}

	cmd.Flags().String("csv", "", "CSV source file")
	cmd.Flags().String("xml", "", "XML source file")
	cmd.MarkFlagsMutuallyExclusive("csv", "xml")

	RootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	path, format, err := sourceFromFlags(cmd, args)
	if err != nil {
		exitErr("analyze", err)
	}

	lib := library()
	prep, err := pipeline.New(nil, lib, nil).Prepare(path, format)
	if err != nil {
		exitErr("analyze", err)
	}

	printJSON(struct {
		SourcePath  string           `json:"source_path"`
		SHA256      string           `json:"sha256"`
		SkippedRows int              `json:"skipped_rows"`
		Coverage    extract.Coverage `json:"coverage"`
	}{
		SourcePath:  prep.Batch.Meta.SourcePath,
		SHA256:      prep.Batch.Meta.SHA256,
		SkippedRows: len(prep.Rejected),
		Coverage:    lib.Analyze(prep.Batch.Records),
	})
}
