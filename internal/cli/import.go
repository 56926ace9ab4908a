package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tablekeeper/internal/config"
	"github.com/JonMunkholm/tablekeeper/internal/core"
	"github.com/JonMunkholm/tablekeeper/internal/sources"
	"github.com/JonMunkholm/tablekeeper/internal/storage/memory"
	"github.com/JonMunkholm/tablekeeper/internal/storage/postgres"
)

// dryRunOwner owns tables imported with --dry-run.
const dryRunOwner = "dry-run"

type importOptions struct {
	userEmail string
	name      string
	dryRun    bool
}

func newImportCommand() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a CSV, TSV or XLSX file as a table owned by a user",
		Long: `Import reads a spreadsheet file and saves it as a new table.

The first row is the header. Blank headers become "Unnamed Column" and rows
are padded or truncated to the header width. With --dry-run the table is
built in memory and printed without touching the database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.userEmail, "user-email", "", "Email of the account that will own the table")
	cmd.Flags().StringVar(&opts.name, "name", "", "Table name (default: file name without extension)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Parse and validate only; do not write to the database")
	return cmd
}

func runImport(cmd *cobra.Command, opts *importOptions, path string) error {
	ctx := cmd.Context()

	var importCfg config.ImportConfig
	if err := config.LoadInto(&importCfg); err != nil {
		return err
	}

	var (
		store core.Store
		owner = dryRunOwner
	)
	if opts.dryRun {
		store = memory.New()
	} else {
		if opts.userEmail == "" {
			return fmt.Errorf("--user-email is required unless --dry-run is set")
		}

		var db config.DatabaseConfig
		if err := config.LoadInto(&db); err != nil {
			return err
		}
		pool, err := postgres.Connect(ctx, db)
		if err != nil {
			return err
		}
		defer pool.Close()

		pg := postgres.New(pool)
		u, err := pg.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(opts.userEmail)))
		if err != nil {
			return fmt.Errorf("find user %s: %w", opts.userEmail, err)
		}
		store, owner = pg, u.ID
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	src, err := sources.FromFile(filepath.Base(path), f, importCfg.MaxFileSize)
	if err != nil {
		return err
	}

	name := opts.name
	if name == "" {
		name = sources.TableName(path)
	}

	t, err := core.NewService(store, importCfg).ImportGrid(ctx, owner, name, src)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(t.Summary())
}
