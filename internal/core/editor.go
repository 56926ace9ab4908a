package core

// editor.go implements the mutable state used while a table is being authored
// or edited.
//
// An Editor owns a single Table and exposes the structural operations a user
// can perform. Every operation keeps each row exactly as wide as the column
// list: adding a column pads all rows, deleting a column removes that cell
// from all rows. An Editor is not safe for concurrent use; one editing
// session owns one Editor.

import (
	"fmt"
	"strings"
)

// Editor is the in-memory state of one table under construction or edit.
type Editor struct {
	table Table
}

// NewEditor returns an Editor over a copy of t. Pass Table{} to start a new
// table from scratch. Rows in t are fitted to the column count.
func NewEditor(t Table) *Editor {
	e := &Editor{table: t.Clone()}
	e.table.Normalize()
	return e
}

// SetName sets the table name. Name validity is checked on save.
func (e *Editor) SetName(name string) {
	e.table.Name = name
}

// Columns returns a copy of the current columns.
func (e *Editor) Columns() []Column {
	return append([]Column(nil), e.table.Columns...)
}

// RowCount returns the number of rows.
func (e *Editor) RowCount() int {
	return len(e.table.Rows)
}

// AddColumn appends a column and pads every existing row with an empty cell.
// An empty type defaults to text.
func (e *Editor) AddColumn(c Column) error {
	if c.Type == "" {
		c.Type = ColumnText
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("add column: %w", err)
	}

	e.table.Columns = append(e.table.Columns, c)
	for i := range e.table.Rows {
		e.table.Rows[i] = append(e.table.Rows[i], "")
	}
	return nil
}

// DeleteColumn removes the column at index and the matching cell from every row.
func (e *Editor) DeleteColumn(index int) error {
	if index < 0 || index >= len(e.table.Columns) {
		return fmt.Errorf("delete column %d of %d: %w", index, len(e.table.Columns), ErrIndexOutOfRange)
	}

	e.table.Columns = append(e.table.Columns[:index:index], e.table.Columns[index+1:]...)
	for i, r := range e.table.Rows {
		e.table.Rows[i] = append(r[:index:index], r[index+1:]...)
	}
	return nil
}

// AddRow appends a row of empty cells, one per column.
func (e *Editor) AddRow() {
	e.table.Rows = append(e.table.Rows, emptyRow(len(e.table.Columns)))
}

// DeleteRow removes the row at index.
func (e *Editor) DeleteRow(index int) error {
	if index < 0 || index >= len(e.table.Rows) {
		return fmt.Errorf("delete row %d of %d: %w", index, len(e.table.Rows), ErrIndexOutOfRange)
	}

	e.table.Rows = append(e.table.Rows[:index:index], e.table.Rows[index+1:]...)
	return nil
}

// UpdateCell sets the value at (row, col). If row is past the last row, the
// row list is first extended with empty rows up to and including row.
func (e *Editor) UpdateCell(row, col int, value string) error {
	if col < 0 || col >= len(e.table.Columns) {
		return fmt.Errorf("update cell column %d of %d: %w", col, len(e.table.Columns), ErrIndexOutOfRange)
	}
	if row < 0 {
		return fmt.Errorf("update cell row %d: %w", row, ErrIndexOutOfRange)
	}

	for len(e.table.Rows) <= row {
		e.table.Rows = append(e.table.Rows, emptyRow(len(e.table.Columns)))
	}
	e.table.Rows[row][col] = value
	return nil
}

// IsReady reports whether the table has at least one column and may be saved.
func (e *Editor) IsReady() bool {
	return len(e.table.Columns) > 0
}

// Table returns a deep copy of the edited table.
func (e *Editor) Table() Table {
	return e.table.Clone()
}

// Validate checks the edited table is ready to be saved.
func (e *Editor) Validate() error {
	if strings.TrimSpace(e.table.Name) == "" {
		return fmt.Errorf("table name is required: %w", ErrInvalidInput)
	}
	if !e.IsReady() {
		return fmt.Errorf("add at least one column before saving: %w", ErrInvalidInput)
	}
	return e.table.Validate()
}
