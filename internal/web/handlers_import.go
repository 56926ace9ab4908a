package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/tablekeeper/internal/core"
	"github.com/JonMunkholm/tablekeeper/internal/logging"
	"github.com/JonMunkholm/tablekeeper/internal/sources"
)

type sheetImportRequest struct {
	SheetID   string `json:"sheetId"`
	TableName string `json:"tableName"`
}

// handleImportSheet creates a table from the first sheet of a Google Sheet.
func (s *Server) handleImportSheet(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	if s.sheets == nil {
		respondError(w, r, sources.ErrSheetsDisabled)
		return
	}

	var req sheetImportRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sheetID, err := sources.ParseSheetID(req.SheetID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "sheet_id", sheetID, "source", "google_sheets").Info("import requested")

	t, err := s.tables.ImportGrid(r.Context(), owner, req.TableName, s.sheets.Source(sheetID))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// handleImportFile creates a table from an uploaded CSV, TSV or XLSX file.
// The table name defaults to the file name without its extension.
func (s *Server) handleImportFile(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	maxSize := s.tables.MaxFileSize()
	// Room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, core.ErrFileTooLarge)
			return
		}
		respondError(w, r, fmt.Errorf("invalid upload form: %v: %w", err, core.ErrInvalidInput))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, fmt.Errorf("no file provided: %w", core.ErrInvalidInput))
		return
	}
	defer file.Close()

	src, err := sources.FromFile(header.Filename, file, maxSize)
	if err != nil {
		respondError(w, r, err)
		return
	}

	name := strings.TrimSpace(r.FormValue("tableName"))
	if name == "" {
		name = sources.TableName(header.Filename)
	}

	logging.WithFields(r.Context(), "file", header.Filename, "size", header.Size).Info("import requested")

	t, err := s.tables.ImportGrid(r.Context(), owner, name, src)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}
