// Package core provides the business logic for user-owned tables.
//
// A [Table] is a named grid: an ordered list of typed [Column] values and a
// list of [Row] values, each row holding one string per column. Columns are
// identified by position and typed as text or date.
//
// # Row Width Invariant
//
// Every row of a table has exactly as many cells as the table has columns.
// All entry points keep this true:
//
//   - [Editor.AddColumn] pads every row; [Editor.DeleteColumn] removes the
//     cell at the deleted index from every row.
//   - [FromGrid] pads short rows and truncates long ones.
//   - [Service.CreateTable] and [Service.ReplaceTable] fit client rows to the
//     column count before validating.
//
// # Editing
//
// An [Editor] is an explicitly constructed, single-owner value. The service
// edits stored tables by loading them, applying editor operations and saving
// the result as a full replacement:
//
//	t, err := svc.EditTable(ctx, userID, tableID, core.ActionCellUpdate, "", func(ed *core.Editor) error {
//	    return ed.UpdateCell(5, 0, "x")
//	})
//
// # Importing
//
// A [GridSource] yields a [][]string whose first row is the header. Google
// Sheets, CSV and XLSX sources live in the sources package. Imports run
// behind an [ImportLimiter] and the configured import timeout.
//
// # Error Handling
//
// Operations return the sentinel errors [ErrInvalidInput],
// [ErrIndexOutOfRange], [ErrEmptyData] and [ErrNotFound], wrapped with
// context. [MapError] turns any error into a [UserMessage] with a support
// code.
package core
