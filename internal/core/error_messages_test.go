package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped not found",
			err:         fmt.Errorf("get table abc: %w", ErrNotFound),
			wantCode:    "TBL001",
			wantMessage: "Table not found",
		},
		{
			name:        "invalid input",
			err:         fmt.Errorf("create table: table name is required: %w", ErrInvalidInput),
			wantCode:    "TBL002",
			wantMessage: "Invalid table data",
		},
		{
			name:        "index out of range",
			err:         fmt.Errorf("column_delete: %w", ErrIndexOutOfRange),
			wantCode:    "TBL003",
			wantMessage: "That row or column does not exist",
		},
		{
			name:        "empty data",
			err:         fmt.Errorf("import \"x\": %w", ErrEmptyData),
			wantCode:    "IMP001",
			wantMessage: "No data found in sheet",
		},
		{
			name:        "too many imports",
			err:         fmt.Errorf("import \"x\": %w", ErrTooManyImports),
			wantCode:    "IMP002",
			wantMessage: "Too many imports in progress",
		},
		{
			name:        "sheet not found pattern",
			err:         errors.New("google sheet not found: abc"),
			wantCode:    "IMP004",
			wantMessage: "Google Sheet not found",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB001",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "context deadline",
			err:         fmt.Errorf("import: %w", context.DeadlineExceeded),
			wantCode:    "DB003",
			wantMessage: "Operation timed out",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("INVALID EMAIL OR PASSWORD"),
			wantCode:    "AUTH001",
			wantMessage: "Invalid email or password",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrNotFound)

	expected := "Table not found (Code: TBL001). It may have been deleted. Refresh your table list"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"sentinel is user facing", ErrEmptyData, true},
		{"known pattern is user facing", errors.New("user already exists"), true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
