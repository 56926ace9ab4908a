package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/JonMunkholm/tablekeeper/internal/config"
	"github.com/JonMunkholm/tablekeeper/internal/core"
)

var (
	sheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	sheetIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ParseSheetID accepts a bare spreadsheet ID or a docs.google.com URL and
// returns the spreadsheet ID.
func ParseSheetID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if m := sheetURLPattern.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if sheetIDPattern.MatchString(s) {
		return s, nil
	}
	return "", fmt.Errorf("invalid sheet id %q: %w", s, core.ErrInvalidInput)
}

// GoogleSheets reads spreadsheet values through the Sheets API using a
// service account.
type GoogleSheets struct {
	svc        *sheets.Service
	valueRange string
}

// NewGoogleSheets builds a client from the configured credentials file.
// It returns ErrSheetsDisabled when no credentials are configured.
func NewGoogleSheets(ctx context.Context, cfg config.GoogleConfig) (*GoogleSheets, error) {
	if !cfg.SheetsEnabled() {
		return nil, ErrSheetsDisabled
	}
	return NewGoogleSheetsWithOptions(ctx, cfg.Range,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
}

// NewGoogleSheetsWithOptions builds a client from explicit client options.
func NewGoogleSheetsWithOptions(ctx context.Context, valueRange string, opts ...option.ClientOption) (*GoogleSheets, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	if valueRange == "" {
		valueRange = "A1:ZZ"
	}
	return &GoogleSheets{svc: svc, valueRange: valueRange}, nil
}

// Source returns a grid source that fetches the first sheet of sheetID.
func (g *GoogleSheets) Source(sheetID string) core.GridSource {
	return core.GridFunc(func(ctx context.Context) ([][]string, error) {
		return g.Fetch(ctx, sheetID)
	})
}

// Fetch reads the configured range of sheetID as formatted strings.
func (g *GoogleSheets) Fetch(ctx context.Context, sheetID string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(sheetID, g.valueRange).
		MajorDimension("ROWS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifySheetsError(sheetID, err)
	}

	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		grid[i] = cells
	}
	return grid, nil
}

func classifySheetsError(sheetID string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("fetch sheet %s: %w", sheetID, ErrSheetNotFound)
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("fetch sheet %s: %w", sheetID, ErrSheetAccessDenied)
		case http.StatusBadRequest:
			return fmt.Errorf("fetch sheet %s: %v: %w", sheetID, gerr.Message, core.ErrInvalidInput)
		}
	}
	return fmt.Errorf("fetch sheet %s: %w", sheetID, err)
}

func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
