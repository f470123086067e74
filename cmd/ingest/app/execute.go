package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/ingest/cmd/ingest/cmd/file"
	"github.com/agentstation/ingest/cmd/ingest/cmd/sheet"
	"github.com/agentstation/ingest/pkg/errors"
)

// Exit codes returned by the ingest binary.
const (
	ExitOK         = 0
	ExitRowsFailed = 1
	ExitRunFailed  = 2
)

// Execute runs the ingest CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ingest",
		Short:   "Bulk-load terms into InterLex",
		Version: a.version,
		Long: `Ingest reads a table of terms from a CSV file or a Google Sheets worksheet,
finds or creates the matching InterLex entity for every row and records the
resulting identifier, or the reason it failed, next to the row.

Each row needs at least a label and a type. Optional columns are synonyms,
definition, comment, superclass, curie and preferred.

By default the SciCrunch test host is used; pass --production to write to
the production InterLex.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Ingestion Commands:",
	})

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.ingest.yaml)")
	rootCmd.PersistentFlags().BoolP("production", "p", false, "use the production InterLex instead of the test host")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "run summary format: table, json, yaml")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("ingest {{.Version}}\n")
	if a.out != nil {
		rootCmd.SetOut(a.out)
	}

	rootCmd.AddCommand(file.NewCommand(a))
	rootCmd.AddCommand(sheet.NewCommand(a))
	rootCmd.AddCommand(a.newVersionCommand())

	return rootCmd
}

// setupCommand reloads the config file named by --config, applies flags and
// rebuilds the logger before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("config") {
		config, err := LoadConfig(a.config.ConfigFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetBool(cmd, "production"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("ingest %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// ExitCode maps an Execute error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errors.ErrRowsFailed):
		return ExitRowsFailed
	default:
		return ExitRunFailed
	}
}

// Exit prints err, if any, and exits with its status.
func Exit(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
	}
	os.Exit(ExitCode(err))
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
