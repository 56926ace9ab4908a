// Package sources turns external spreadsheets into grids for core.FromGrid.
//
// Three sources are supported: a Google Sheet read through the Sheets API,
// and uploaded CSV or XLSX files. Each returns a core.GridSource so that the
// fetch itself runs inside the import slot held by core.Service.ImportGrid.
package sources

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/tablekeeper/internal/core"
)

var (
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrMalformedFile     = errors.New("malformed file")
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrSheetAccessDenied = errors.New("sheet access denied")
	ErrSheetsDisabled    = errors.New("google sheets is not configured")
)

// FileKind identifies an uploaded file format.
type FileKind string

const (
	KindCSV  FileKind = "csv"
	KindTSV  FileKind = "tsv"
	KindXLSX FileKind = "xlsx"
)

// DetectKind picks the file format from the file name extension.
func DetectKind(filename string) (FileKind, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return KindCSV, nil
	case ".tsv", ".tab":
		return KindTSV, nil
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFile, filepath.Ext(filename))
	}
}

// FromFile returns a grid source for an uploaded file. The body is read
// lazily, at most maxBytes of it.
func FromFile(filename string, r io.Reader, maxBytes int64) (core.GridSource, error) {
	kind, err := DetectKind(filename)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindTSV:
		return Delimited(r, '\t', maxBytes), nil
	case KindXLSX:
		return XLSX(r, maxBytes), nil
	default:
		return Delimited(r, ',', maxBytes), nil
	}
}

// TableName derives a default table name from an uploaded file name.
func TableName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}
