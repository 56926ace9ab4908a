package sources

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/tablekeeper/internal/core"
)

// XLSX returns a grid source reading the first worksheet of a workbook.
// Cells are read as their formatted display text.
func XLSX(r io.Reader, maxBytes int64) core.GridSource {
	return core.GridFunc(func(ctx context.Context) ([][]string, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := core.ReadLimited(r, maxBytes)
		if err != nil {
			return nil, err
		}

		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w: %v", ErrMalformedFile, err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.ErrEmptyData
		}

		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("open workbook: read %q: %w: %v", sheets[0], ErrMalformedFile, err)
		}
		return rows, nil
	})
}
