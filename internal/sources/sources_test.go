package sources

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/tablekeeper/internal/core"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name    string
		want    FileKind
		wantErr bool
	}{
		{"people.csv", KindCSV, false},
		{"PEOPLE.CSV", KindCSV, false},
		{"export.tsv", KindTSV, false},
		{"book.xlsx", KindXLSX, false},
		{"macro.xlsm", KindXLSX, false},
		{"notes.txt", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := DetectKind(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedFile) {
				t.Errorf("DetectKind(%q) error = %v, want ErrUnsupportedFile", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("DetectKind(%q) = %q, %v; want %q", tt.name, got, err, tt.want)
		}
	}
}

func TestTableName(t *testing.T) {
	tests := map[string]string{
		"people.csv":          "people",
		"/tmp/Q1 budget.xlsx": "Q1 budget",
		"archive.2024.tsv":    "archive.2024",
	}
	for in, want := range tests {
		if got := TableName(in); got != want {
			t.Errorf("TableName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCSV(t *testing.T) {
	body := "\xEF\xBB\xBFName,Age\nAnn,30\n\"Smith, Bob\",41,extra\nCy\n"

	grid, err := CSV(strings.NewReader(body), 1024).Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid() error = %v", err)
	}

	want := [][]string{
		{"Name", "Age"},
		{"Ann", "30"},
		{"Smith, Bob", "41", "extra"},
		{"Cy"},
	}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("Grid() mismatch (-want +got):\n%s", diff)
	}
}

func TestCSV_TooLarge(t *testing.T) {
	_, err := CSV(strings.NewReader(strings.Repeat("a,b\n", 100)), 16).Grid(context.Background())
	if !errors.Is(err, core.ErrFileTooLarge) {
		t.Errorf("Grid() error = %v, want ErrFileTooLarge", err)
	}
}

func TestFromFile_TSV(t *testing.T) {
	src, err := FromFile("data.tsv", strings.NewReader("a\tb\n1\t2\n"), 1024)
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	grid, err := src.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid() error = %v", err)
	}
	if diff := cmp.Diff([][]string{{"a", "b"}, {"1", "2"}}, grid); diff != "" {
		t.Errorf("Grid() mismatch (-want +got):\n%s", diff)
	}

	if _, err := FromFile("data.pdf", strings.NewReader(""), 1024); !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("FromFile(pdf) error = %v", err)
	}
}

func TestXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	cells := map[string]any{
		"A1": "Name", "B1": "Age",
		"A2": "Ann", "B2": 30,
		"A3": "Bob",
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	src, err := FromFile("book.xlsx", buf, 1<<20)
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	grid, err := src.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid() error = %v", err)
	}

	want := [][]string{{"Name", "Age"}, {"Ann", "30"}, {"Bob"}}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("Grid() mismatch (-want +got):\n%s", diff)
	}
}

func TestXLSX_Malformed(t *testing.T) {
	_, err := XLSX(strings.NewReader("not a zip"), 1024).Grid(context.Background())
	if !errors.Is(err, ErrMalformedFile) {
		t.Errorf("Grid() error = %v, want ErrMalformedFile", err)
	}
	if got := core.MapError(err).Code; got != "IMP008" {
		t.Errorf("MapError code = %s, want IMP008", got)
	}
}
