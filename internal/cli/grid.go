package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tablekeeper/internal/config"
	"github.com/JonMunkholm/tablekeeper/internal/core"
	"github.com/JonMunkholm/tablekeeper/internal/sources"
)

func newGridCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "grid <file>",
		Short: "Preview how a file would be imported",
		Long: `Grid parses a spreadsheet file the same way import does and prints the
resulting columns and rows. Nothing is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := previewTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTable(cmd, t, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to print (0 for all)")
	return cmd
}

// previewTable builds the table import would create from path.
func previewTable(ctx context.Context, path string) (core.Table, error) {
	var importCfg config.ImportConfig
	if err := config.LoadInto(&importCfg); err != nil {
		return core.Table{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return core.Table{}, err
	}
	defer f.Close()

	src, err := sources.FromFile(filepath.Base(path), f, importCfg.MaxFileSize)
	if err != nil {
		return core.Table{}, err
	}
	grid, err := src.Grid(ctx)
	if err != nil {
		return core.Table{}, err
	}
	return core.FromGrid(sources.TableName(path), grid)
}

func printTable(cmd *cobra.Command, t core.Table, limit int) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d columns, %d rows\n\n", t.Name, len(t.Columns), len(t.Rows))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = fmt.Sprintf("%s (%s)", c.Name, c.Type)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	rows := t.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if hidden := len(t.Rows) - len(rows); hidden > 0 {
		fmt.Fprintf(out, "... %d more rows\n", hidden)
	}
	return nil
}
