// Package cli implements tablectl, the operator command line for migrations,
// bulk imports and previewing spreadsheet files.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tablekeeper/internal/logging"
)

// options are the persistent flags shared by every command.
type options struct {
	envFile   string
	logLevel  string
	logFormat string
}

// NewRootCommand builds the tablectl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "tablectl",
		Short: "Operate a tablekeeper deployment",
		Long: `tablectl runs maintenance tasks against the tablekeeper database.

Environment Variables:
  DATABASE_URL           PostgreSQL connection string (migrate, import)
  IMPORT_MAX_FILE_SIZE   Largest file accepted by import and grid`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.envFile != "" {
				if err := godotenv.Overload(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("load %s: %w", opts.envFile, err)
				}
			}
			// Logs go to stderr so stdout stays clean for command output.
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file to load if present")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(newMigrateCommand(), newImportCommand(), newGridCommand())
	return root
}

// Execute runs tablectl with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}
