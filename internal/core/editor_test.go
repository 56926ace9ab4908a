package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestEditor(t *testing.T, cols ...string) *Editor {
	t.Helper()
	ed := NewEditor(Table{Name: "test"})
	for _, c := range cols {
		if err := ed.AddColumn(Column{Name: c, Type: ColumnText}); err != nil {
			t.Fatalf("AddColumn(%q) error = %v", c, err)
		}
	}
	return ed
}

func assertRowWidths(t *testing.T, ed *Editor) {
	t.Helper()
	tbl := ed.Table()
	for i, r := range tbl.Rows {
		if len(r) != len(tbl.Columns) {
			t.Errorf("row %d has %d cells, want %d", i, len(r), len(tbl.Columns))
		}
	}
}

func TestEditor_IsReady(t *testing.T) {
	ed := NewEditor(Table{})
	if ed.IsReady() {
		t.Error("IsReady() = true for editor with no columns")
	}

	if err := ed.AddColumn(Column{Name: "Name", Type: ColumnText}); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	if !ed.IsReady() {
		t.Error("IsReady() = false after AddColumn")
	}
}

func TestEditor_AddColumn(t *testing.T) {
	tests := []struct {
		name    string
		col     Column
		wantErr error
	}{
		{"text column", Column{Name: "Name", Type: ColumnText}, nil},
		{"date column", Column{Name: "Born", Type: ColumnDate}, nil},
		{"empty type defaults to text", Column{Name: "Notes"}, nil},
		{"empty name", Column{Name: "", Type: ColumnText}, ErrInvalidInput},
		{"whitespace name", Column{Name: "   ", Type: ColumnText}, ErrInvalidInput},
		{"unknown type", Column{Name: "Age", Type: "number"}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := NewEditor(Table{})
			err := ed.AddColumn(tt.col)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddColumn() error = %v, want %v", err, tt.wantErr)
			}
			wantCols := 1
			if tt.wantErr != nil {
				wantCols = 0
			}
			if got := len(ed.Columns()); got != wantCols {
				t.Errorf("len(Columns()) = %d, want %d", got, wantCols)
			}
		})
	}
}

func TestEditor_AddColumn_DefaultsType(t *testing.T) {
	ed := NewEditor(Table{})
	if err := ed.AddColumn(Column{Name: "Notes"}); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	if got := ed.Columns()[0].Type; got != ColumnText {
		t.Errorf("Type = %q, want %q", got, ColumnText)
	}
}

func TestEditor_AddColumn_PadsRows(t *testing.T) {
	ed := newTestEditor(t, "A")
	ed.AddRow()
	ed.AddRow()
	if err := ed.UpdateCell(0, 0, "a0"); err != nil {
		t.Fatal(err)
	}

	if err := ed.AddColumn(Column{Name: "B", Type: ColumnDate}); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}

	want := []Row{{"a0", ""}, {"", ""}}
	if diff := cmp.Diff(want, ed.Table().Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_DeleteColumn(t *testing.T) {
	ed := newTestEditor(t, "A", "B", "C")
	for r := 0; r < 2; r++ {
		for c, v := range []string{"a", "b", "c"} {
			if err := ed.UpdateCell(r, c, v); err != nil {
				t.Fatal(err)
			}
		}
	}

	if err := ed.DeleteColumn(1); err != nil {
		t.Fatalf("DeleteColumn(1) error = %v", err)
	}

	tbl := ed.Table()
	wantCols := []Column{{Name: "A", Type: ColumnText}, {Name: "C", Type: ColumnText}}
	if diff := cmp.Diff(wantCols, tbl.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	wantRows := []Row{{"a", "c"}, {"a", "c"}}
	if diff := cmp.Diff(wantRows, tbl.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_DeleteColumn_OutOfRange(t *testing.T) {
	ed := newTestEditor(t, "A", "B")
	ed.AddRow()

	for _, idx := range []int{-1, 2, 10} {
		if err := ed.DeleteColumn(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("DeleteColumn(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	if got := len(ed.Columns()); got != 2 {
		t.Errorf("len(Columns()) = %d after failed deletes, want 2", got)
	}
	assertRowWidths(t, ed)
}

func TestEditor_DeleteThenAddColumn_Appends(t *testing.T) {
	ed := newTestEditor(t, "A", "B", "C")

	if err := ed.DeleteColumn(0); err != nil {
		t.Fatal(err)
	}
	if err := ed.AddColumn(Column{Name: "D", Type: ColumnDate}); err != nil {
		t.Fatal(err)
	}

	want := []Column{
		{Name: "B", Type: ColumnText},
		{Name: "C", Type: ColumnText},
		{Name: "D", Type: ColumnDate},
	}
	if diff := cmp.Diff(want, ed.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_RowWidthInvariant(t *testing.T) {
	ed := newTestEditor(t, "A")
	ed.AddRow()
	ed.AddRow()

	steps := []func() error{
		func() error { return ed.AddColumn(Column{Name: "B"}) },
		func() error { return ed.AddColumn(Column{Name: "C"}) },
		func() error { return ed.DeleteColumn(0) },
		func() error { ed.AddRow(); return nil },
		func() error { return ed.AddColumn(Column{Name: "D", Type: ColumnDate}) },
		func() error { return ed.DeleteColumn(2) },
		func() error { return ed.UpdateCell(7, 1, "x") },
		func() error { return ed.DeleteColumn(0) },
	}

	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
		assertRowWidths(t, ed)
	}
}

func TestEditor_AddRow(t *testing.T) {
	ed := newTestEditor(t, "A", "B", "C")
	ed.AddRow()

	want := []Row{{"", "", ""}}
	if diff := cmp.Diff(want, ed.Table().Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_DeleteRow(t *testing.T) {
	ed := newTestEditor(t, "A")
	for i, v := range []string{"r0", "r1", "r2"} {
		if err := ed.UpdateCell(i, 0, v); err != nil {
			t.Fatal(err)
		}
	}

	if err := ed.DeleteRow(1); err != nil {
		t.Fatalf("DeleteRow(1) error = %v", err)
	}

	want := []Row{{"r0"}, {"r2"}}
	if diff := cmp.Diff(want, ed.Table().Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_DeleteRow_OutOfRange(t *testing.T) {
	ed := newTestEditor(t, "A")
	ed.AddRow()
	ed.AddRow()

	for _, idx := range []int{-1, 2, 99} {
		if err := ed.DeleteRow(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("DeleteRow(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	if got := ed.RowCount(); got != 2 {
		t.Errorf("RowCount() = %d after failed deletes, want 2", got)
	}
}

func TestEditor_UpdateCell_LazyDensify(t *testing.T) {
	ed := newTestEditor(t, "A", "B")
	ed.AddRow()
	ed.AddRow()

	if err := ed.UpdateCell(5, 0, "x"); err != nil {
		t.Fatalf("UpdateCell(5, 0) error = %v", err)
	}

	rows := ed.Table().Rows
	if len(rows) != 6 {
		t.Fatalf("len(rows) = %d, want 6", len(rows))
	}
	for i := 2; i < 5; i++ {
		if diff := cmp.Diff(Row{"", ""}, rows[i]); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	if diff := cmp.Diff(Row{"x", ""}, rows[5]); diff != "" {
		t.Errorf("row 5 mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_UpdateCell_OutOfRange(t *testing.T) {
	ed := newTestEditor(t, "A", "B")

	tests := []struct {
		name     string
		row, col int
	}{
		{"column past end", 0, 2},
		{"negative column", 0, -1},
		{"negative row", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ed.UpdateCell(tt.row, tt.col, "x")
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("UpdateCell(%d, %d) error = %v, want ErrIndexOutOfRange", tt.row, tt.col, err)
			}
		})
	}
	if got := ed.RowCount(); got != 0 {
		t.Errorf("RowCount() = %d, want 0", got)
	}
}

func TestEditor_TableIsCopy(t *testing.T) {
	ed := newTestEditor(t, "A")
	ed.AddRow()

	snapshot := ed.Table()
	snapshot.Rows[0][0] = "mutated"
	snapshot.Columns[0].Name = "mutated"

	tbl := ed.Table()
	if tbl.Rows[0][0] != "" || tbl.Columns[0].Name != "A" {
		t.Error("mutating Table() result changed editor state")
	}
}

func TestNewEditor_FitsRows(t *testing.T) {
	ed := NewEditor(Table{
		Name:    "t",
		Columns: []Column{{Name: "A", Type: ColumnText}, {Name: "B", Type: ColumnText}},
		Rows:    []Row{{"1"}, {"1", "2", "3"}},
	})

	want := []Row{{"1", ""}, {"1", "2"}}
	if diff := cmp.Diff(want, ed.Table().Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_Validate(t *testing.T) {
	ed := NewEditor(Table{})
	if err := ed.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Validate() on empty editor = %v, want ErrInvalidInput", err)
	}

	ed.SetName("People")
	if err := ed.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Validate() without columns = %v, want ErrInvalidInput", err)
	}

	if err := ed.AddColumn(Column{Name: "Name"}); err != nil {
		t.Fatal(err)
	}
	if err := ed.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
