package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxFileSize caps uploaded import files when no limit is configured.
const DefaultMaxFileSize = 10 << 20

// ErrFileTooLarge is returned when an uploaded file exceeds the size limit.
var ErrFileTooLarge = errors.New("file too large")

// utf8BOM is prepended to CSV exports by Excel and other Windows programs.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadLimited reads all of r, failing with ErrFileTooLarge if it holds more
// than maxBytes bytes.
func ReadLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileSize
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, maxBytes)
	}
	return data, nil
}

// CleanText strips a leading UTF-8 BOM and replaces invalid UTF-8 sequences
// with U+FFFD. Use it on text formats only, never on binary workbooks.
func CleanText(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	return bytes.ToValidUTF8(data, []byte("\uFFFD"))
}
