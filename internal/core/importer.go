package core

// importer.go converts a rectangular grid of strings, as returned by a
// spreadsheet API or a parsed file, into a Table.
//
// The first grid row is the header. Each header cell becomes a text column;
// blank headers become "Unnamed Column". Every following row is fitted to the
// header width: short rows are padded with empty strings and long rows are
// truncated, so the imported table always satisfies the row width invariant.

import (
	"context"
	"fmt"
	"strings"
)

// GridSource produces a grid of cell values. The first row is the header.
type GridSource interface {
	Grid(ctx context.Context) ([][]string, error)
}

// GridFunc adapts a function to GridSource.
type GridFunc func(ctx context.Context) ([][]string, error)

// Grid calls f.
func (f GridFunc) Grid(ctx context.Context) ([][]string, error) {
	return f(ctx)
}

// StaticGrid is a GridSource over an in-memory grid.
type StaticGrid [][]string

// Grid returns g.
func (g StaticGrid) Grid(context.Context) ([][]string, error) {
	return g, nil
}

// FromGrid builds a table named name from grid. Returns ErrEmptyData if the
// grid has no rows. The name is not validated here; persistence does that.
func FromGrid(name string, grid [][]string) (Table, error) {
	if len(grid) == 0 {
		return Table{}, fmt.Errorf("import %q: %w", name, ErrEmptyData)
	}

	header := grid[0]
	columns := make([]Column, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = UnnamedColumn
		}
		columns[i] = Column{Name: h, Type: ColumnText}
	}

	rows := make([]Row, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		rows = append(rows, fitRow(append(Row(nil), cells...), len(columns)))
	}

	return Table{
		Name:    name,
		Columns: columns,
		Rows:    rows,
	}, nil
}
