// Package sheet implements the command that ingests a Google Sheets worksheet.
package sheet

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/ingest/cmd/application"
	"github.com/agentstation/ingest/internal/cmd/runner"
	"github.com/agentstation/ingest/internal/table"
)

// Flags holds sheet-specific flags.
type Flags struct {
	SpreadsheetID string
}

// NewCommand creates the sheet command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sheet <spreadsheet-name> <worksheet-name>",
		GroupID: "core",
		Short:   "Ingest a Google Sheets worksheet into InterLex",
		Long: `Sheet reads a worksheet through the Sheets API, finds or creates the
matching InterLex entity for every row and writes the four output columns
(InterLex Fragment, InterLex IRI, success, error) back into the worksheet.
Other cells are left alone.

The spreadsheet is found by name through the Drive API unless
--spreadsheet-id is given, in which case the name is only used in logs.

Google credentials come from google.credentials, GOOGLE_APPLICATION_CREDENTIALS
or the gcloud application default credentials file.`,
		Example: `  ingest sheet "Brain terms" Sheet1
  ingest sheet terms Sheet1 --spreadsheet-id 1AbC...xyz`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts, err := app.GoogleOptions()
			if err != nil {
				return err
			}
			cfg := table.SheetConfig{
				Spreadsheet:   args[0],
				SpreadsheetID: flags.SpreadsheetID,
				Worksheet:     args[1],
			}
			tbl, err := table.NewSheet(ctx, cfg, opts...)
			if err != nil {
				return err
			}
			return runner.Run(ctx, app, tbl, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.SpreadsheetID, "spreadsheet-id", "",
		"use this spreadsheet id instead of looking the name up in Drive")

	return cmd
}
