// Package core provides the business logic for user-owned tables.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ColumnType is the declared type of a column. Only two variants exist.
type ColumnType string

const (
	ColumnText ColumnType = "text"
	ColumnDate ColumnType = "date"
)

// UnnamedColumn is the name given to imported columns with a blank header.
const UnnamedColumn = "Unnamed Column"

// Valid reports whether t is one of the known column types.
func (t ColumnType) Valid() bool {
	return t == ColumnText || t == ColumnDate
}

// ParseColumnType converts a string to a ColumnType (case-insensitive).
// An empty string defaults to text.
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return ColumnText, nil
	case "date":
		return ColumnDate, nil
	default:
		return "", fmt.Errorf("unknown column type %q: %w", s, ErrInvalidInput)
	}
}

// UnmarshalJSON rejects column types other than text and date so that
// invalid types never reach persisted data.
func (t *ColumnType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("column type: %w", ErrInvalidInput)
	}
	parsed, err := ParseColumnType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Column defines one field of a table. Columns are identified by position.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Validate checks that the column has a name and a known type.
func (c Column) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("column name is required: %w", ErrInvalidInput)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("column %q has invalid type %q: %w", c.Name, c.Type, ErrInvalidInput)
	}
	return nil
}

// Row holds one cell value per column, in column order.
type Row []string

// Table is a user-owned named grid of typed columns and string rows.
type Table struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"userId"`
	Name      string    `json:"name"`
	Columns   []Column  `json:"columns"`
	Rows      []Row     `json:"rows"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks that the table can be persisted: a non-empty name, at
// least one column, valid columns, and every row as wide as the column list.
func (t *Table) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("table name is required: %w", ErrInvalidInput)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %q has no columns: %w", t.Name, ErrInvalidInput)
	}
	for _, c := range t.Columns {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	for i, r := range t.Rows {
		if len(r) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d: %w", i, len(r), len(t.Columns), ErrInvalidInput)
		}
	}
	return nil
}

// Normalize gives untyped columns the text type, then pads short rows and
// truncates long rows to the column count. Rows arriving from clients or old
// documents may not respect the width.
func (t *Table) Normalize() {
	for i, c := range t.Columns {
		if c.Type == "" {
			// Columns may alias the caller's slice.
			t.Columns = append([]Column(nil), t.Columns...)
			for j := i; j < len(t.Columns); j++ {
				if t.Columns[j].Type == "" {
					t.Columns[j].Type = ColumnText
				}
			}
			break
		}
	}
	for i := range t.Rows {
		t.Rows[i] = fitRow(t.Rows[i], len(t.Columns))
	}
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := t
	out.Columns = append([]Column(nil), t.Columns...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = append(Row(nil), r...)
	}
	return out
}

// TableSummary is the list view of a table.
type TableSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ColumnCount int       `json:"columnCount"`
	RowCount    int       `json:"rowCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summary returns the list view of the table.
func (t Table) Summary() TableSummary {
	return TableSummary{
		ID:          t.ID,
		Name:        t.Name,
		ColumnCount: len(t.Columns),
		RowCount:    len(t.Rows),
		UpdatedAt:   t.UpdatedAt,
	}
}

// fitRow returns r resized to width: padded with empty strings or truncated.
func fitRow(r Row, width int) Row {
	if len(r) == width {
		return r
	}
	if len(r) > width {
		return r[:width:width]
	}
	out := make(Row, width)
	copy(out, r)
	return out
}

// emptyRow returns a row of width empty strings.
func emptyRow(width int) Row {
	return make(Row, width)
}
