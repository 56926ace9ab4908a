package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/tablekeeper/internal/core"
)

var errMissingCellPosition = fmt.Errorf("row and col are required: %w", core.ErrInvalidInput)

// tableRequest is the body of create and replace.
type tableRequest struct {
	Name    string        `json:"name"`
	Columns []core.Column `json:"columns"`
	Rows    []core.Row    `json:"rows"`
}

type columnRequest struct {
	Name string          `json:"name"`
	Type core.ColumnType `json:"type"`
}

type cellRequest struct {
	Row   *int   `json:"row"`
	Col   *int   `json:"col"`
	Value string `json:"value"`
}

// handleCreateTable saves a table authored in the editor.
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	var req tableRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	t, err := s.tables.CreateTable(r.Context(), owner, req.Name, req.Columns, req.Rows)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// handleListTables returns every table of the current user.
// Pass ?view=summary for names and sizes only.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	tables, err := s.tables.ListTables(r.Context(), owner)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("view") == "summary" {
		summaries := make([]core.TableSummary, len(tables))
		for i, t := range tables {
			summaries[i] = t.Summary()
		}
		writeJSON(w, http.StatusOK, summaries)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	t, err := s.tables.GetTable(r.Context(), owner, chi.URLParam(r, "tableID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleReplaceTable overwrites name, columns and rows in one request.
func (s *Server) handleReplaceTable(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	var req tableRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	t, err := s.tables.ReplaceTable(r.Context(), owner, chi.URLParam(r, "tableID"), req.Name, req.Columns, req.Rows)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	if err := s.tables.DeleteTable(r.Context(), owner, chi.URLParam(r, "tableID")); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Table deleted successfully"})
}

func (s *Server) handleTableHistory(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)
	id := chi.URLParam(r, "tableID")

	entries, err := s.tables.History(r.Context(), owner, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	var req columnRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	t, err := s.tables.AddColumn(r.Context(), owner, chi.URLParam(r, "tableID"), core.Column{Name: req.Name, Type: req.Type})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	index, err := indexParam(r, "index")
	if err != nil {
		respondError(w, r, err)
		return
	}

	t, err := s.tables.DeleteColumn(r.Context(), owner, chi.URLParam(r, "tableID"), index)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	t, err := s.tables.AddRow(r.Context(), owner, chi.URLParam(r, "tableID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	index, err := indexParam(r, "index")
	if err != nil {
		respondError(w, r, err)
		return
	}

	t, err := s.tables.DeleteRow(r.Context(), owner, chi.URLParam(r, "tableID"), index)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleUpdateCell sets one cell. Rows past the end are created.
func (s *Server) handleUpdateCell(w http.ResponseWriter, r *http.Request) {
	owner, r := ownerAndContext(r)

	var req cellRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Row == nil || req.Col == nil {
		respondError(w, r, errMissingCellPosition)
		return
	}

	t, err := s.tables.UpdateCell(r.Context(), owner, chi.URLParam(r, "tableID"), *req.Row, *req.Col, req.Value)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
