// Package file implements the command that ingests a CSV file.
package file

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/ingest/cmd/application"
	"github.com/agentstation/ingest/internal/cmd/runner"
	"github.com/agentstation/ingest/internal/table"
)

// NewCommand creates the file command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "file <input-path> <output-path>",
		GroupID: "core",
		Short:   "Ingest a CSV file into InterLex",
		Long: `File reads every row of a CSV table, finds or creates the matching
InterLex entity and writes a copy of the table with four columns added:
InterLex Fragment, InterLex IRI, success and error.

The input is never modified. The output path gets a .csv extension when it
has none. Rows are processed in order and each is attempted once.`,
		Example: `  ingest file terms.csv terms_out.csv
  ingest file terms.csv out -p          # against production InterLex
  ingest file terms.csv out -o json     # JSON run summary`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl := table.NewCSV(args[0], args[1])
			return runner.Run(cmd.Context(), app, tbl, cmd.OutOrStdout())
		},
	}
}
