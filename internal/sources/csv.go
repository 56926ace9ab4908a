package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/JonMunkholm/tablekeeper/internal/core"
)

// CSV returns a grid source reading comma-separated text from r.
func CSV(r io.Reader, maxBytes int64) core.GridSource {
	return Delimited(r, ',', maxBytes)
}

// Delimited returns a grid source reading text from r split on comma.
// Rows may have differing lengths; the importer fits them to the header.
func Delimited(r io.Reader, comma rune, maxBytes int64) core.GridSource {
	return core.GridFunc(func(ctx context.Context) ([][]string, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := core.ReadLimited(r, maxBytes)
		if err != nil {
			return nil, err
		}

		cr := csv.NewReader(bytes.NewReader(core.CleanText(data)))
		cr.Comma = comma
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true

		records, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w: %v", ErrMalformedFile, err)
		}
		return records, nil
	})
}
