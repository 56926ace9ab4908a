package core

import "errors"

// Sentinel errors returned by the table model and service. Callers test for
// them with errors.Is; messages are wrapped with context by the operation.
var (
	// ErrInvalidInput covers empty table names, tables without columns and
	// malformed columns.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexOutOfRange is returned when a row or column index is past the
	// current bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrEmptyData is returned when an import grid has no rows.
	ErrEmptyData = errors.New("empty data")

	// ErrNotFound is returned when a table does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("table not found")
)
