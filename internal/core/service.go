package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/tablekeeper/internal/config"
)

// TableStore durably saves, loads and deletes tables keyed by owner and ID.
//
// SaveTable inserts when t.ID is empty, assigning a new ID, and otherwise
// replaces the owned table with the same ID in full. Lookups of tables that
// do not exist or belong to another owner return ErrNotFound.
type TableStore interface {
	SaveTable(ctx context.Context, t Table) (Table, error)
	FindTable(ctx context.Context, ownerID, id string) (Table, error)
	ListTables(ctx context.Context, ownerID string) ([]Table, error)
	DeleteTable(ctx context.Context, ownerID, id string) error
}

// AuditStore persists the change history of tables.
type AuditStore interface {
	RecordAudit(ctx context.Context, e AuditEntry) error
	ListAudit(ctx context.Context, ownerID, tableID string, limit int) ([]AuditEntry, error)
}

// Store is everything the Service needs from persistence.
type Store interface {
	TableStore
	AuditStore
}

// DefaultHistoryLimit caps the number of audit entries returned by History.
const DefaultHistoryLimit = 200

// DefaultMaxRows caps table length when no limit is configured.
const DefaultMaxRows = 100000

// Service provides the core business logic for tables.
type Service struct {
	store         Store
	limiter       *ImportLimiter
	importTimeout time.Duration
	maxFileSize   int64
	maxRows       int
}

// NewService creates a Service backed by store, with import limits from cfg.
func NewService(store Store, cfg config.ImportConfig) *Service {
	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Service{
		store:         store,
		limiter:       NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		importTimeout: cfg.Timeout,
		maxFileSize:   cfg.MaxFileSize,
		maxRows:       maxRows,
	}
}

// MaxRows returns the largest number of rows a table may hold.
func (s *Service) MaxRows() int {
	return s.maxRows
}

// checkRowCount rejects tables longer than the row limit.
func (s *Service) checkRowCount(n int) error {
	if n > s.maxRows {
		return fmt.Errorf("%d rows exceeds the limit of %d: %w", n, s.maxRows, ErrInvalidInput)
	}
	return nil
}

// MaxFileSize returns the configured limit for uploaded import files.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// CreateTable validates and saves a new table for ownerID.
// Rows are fitted to the column count before saving.
func (s *Service) CreateTable(ctx context.Context, ownerID, name string, columns []Column, rows []Row) (Table, error) {
	t := Table{
		OwnerID: ownerID,
		Name:    strings.TrimSpace(name),
		Columns: columns,
		Rows:    rows,
	}
	if t.Rows == nil {
		t.Rows = []Row{}
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return Table{}, fmt.Errorf("create table: %w", err)
	}
	if err := s.checkRowCount(len(t.Rows)); err != nil {
		return Table{}, fmt.Errorf("create table: %w", err)
	}

	saved, err := s.store.SaveTable(ctx, t)
	if err != nil {
		return Table{}, fmt.Errorf("create table: %w", err)
	}

	s.recordAudit(ctx, saved, ActionTableCreate, saved.Name)
	return saved, nil
}

// ListTables returns all tables owned by ownerID.
func (s *Service) ListTables(ctx context.Context, ownerID string) ([]Table, error) {
	tables, err := s.store.ListTables(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// GetTable returns one table owned by ownerID.
func (s *Service) GetTable(ctx context.Context, ownerID, id string) (Table, error) {
	t, err := s.store.FindTable(ctx, ownerID, id)
	if err != nil {
		return Table{}, fmt.Errorf("get table %s: %w", id, err)
	}
	return t, nil
}

// ReplaceTable overwrites the name, columns and rows of an existing table.
func (s *Service) ReplaceTable(ctx context.Context, ownerID, id, name string, columns []Column, rows []Row) (Table, error) {
	existing, err := s.store.FindTable(ctx, ownerID, id)
	if err != nil {
		return Table{}, fmt.Errorf("replace table %s: %w", id, err)
	}

	existing.Name = strings.TrimSpace(name)
	existing.Columns = columns
	existing.Rows = rows
	if existing.Rows == nil {
		existing.Rows = []Row{}
	}
	existing.Normalize()
	if err := existing.Validate(); err != nil {
		return Table{}, fmt.Errorf("replace table %s: %w", id, err)
	}
	if err := s.checkRowCount(len(existing.Rows)); err != nil {
		return Table{}, fmt.Errorf("replace table %s: %w", id, err)
	}

	saved, err := s.store.SaveTable(ctx, existing)
	if err != nil {
		return Table{}, fmt.Errorf("replace table %s: %w", id, err)
	}

	s.recordAudit(ctx, saved, ActionTableUpdate, saved.Name)
	return saved, nil
}

// DeleteTable removes a table owned by ownerID.
func (s *Service) DeleteTable(ctx context.Context, ownerID, id string) error {
	t, err := s.store.FindTable(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete table %s: %w", id, err)
	}
	if err := s.store.DeleteTable(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete table %s: %w", id, err)
	}

	s.recordAudit(ctx, t, ActionTableDelete, t.Name)
	return nil
}

// ImportGrid fetches a grid from src and saves it as a new table named name.
// Imports share a bounded number of slots and run under the import timeout.
func (s *Service) ImportGrid(ctx context.Context, ownerID, name string, src GridSource) (Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Table{}, fmt.Errorf("import: table name is required: %w", ErrInvalidInput)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return Table{}, fmt.Errorf("import %q: %w", name, err)
	}
	defer s.limiter.Release()

	if s.importTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.importTimeout)
		defer cancel()
	}

	start := time.Now()
	grid, err := src.Grid(ctx)
	if err != nil {
		return Table{}, fmt.Errorf("import %q: %w", name, err)
	}

	t, err := FromGrid(name, grid)
	if err != nil {
		return Table{}, err
	}
	t.OwnerID = ownerID
	if err := t.Validate(); err != nil {
		return Table{}, fmt.Errorf("import %q: %w", name, err)
	}
	if err := s.checkRowCount(len(t.Rows)); err != nil {
		return Table{}, fmt.Errorf("import %q: %w", name, err)
	}

	saved, err := s.store.SaveTable(ctx, t)
	if err != nil {
		return Table{}, fmt.Errorf("import %q: %w", name, err)
	}

	slog.InfoContext(ctx, "table imported",
		"table_id", saved.ID,
		"columns", len(saved.Columns),
		"rows", len(saved.Rows),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	s.recordAudit(ctx, saved, ActionTableImport, fmt.Sprintf("%d columns, %d rows", len(saved.Columns), len(saved.Rows)))
	return saved, nil
}

// EditTable loads a table, applies edit to an Editor over it and saves the
// result as a full replacement. Nothing is saved if edit fails.
func (s *Service) EditTable(ctx context.Context, ownerID, id string, action AuditAction, detail string, edit func(*Editor) error) (Table, error) {
	t, err := s.store.FindTable(ctx, ownerID, id)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", action, err)
	}

	ed := NewEditor(t)
	if err := edit(ed); err != nil {
		return Table{}, fmt.Errorf("%s: %w", action, err)
	}
	if err := ed.Validate(); err != nil {
		return Table{}, fmt.Errorf("%s: %w", action, err)
	}

	saved, err := s.store.SaveTable(ctx, ed.Table())
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", action, err)
	}

	s.recordAudit(ctx, saved, action, detail)
	return saved, nil
}

// AddColumn appends a column to a stored table.
func (s *Service) AddColumn(ctx context.Context, ownerID, id string, c Column) (Table, error) {
	return s.EditTable(ctx, ownerID, id, ActionColumnAdd, c.Name, func(ed *Editor) error {
		return ed.AddColumn(c)
	})
}

// DeleteColumn removes a column from a stored table.
func (s *Service) DeleteColumn(ctx context.Context, ownerID, id string, index int) (Table, error) {
	return s.EditTable(ctx, ownerID, id, ActionColumnDelete, fmt.Sprintf("column %d", index), func(ed *Editor) error {
		return ed.DeleteColumn(index)
	})
}

// AddRow appends an empty row to a stored table.
func (s *Service) AddRow(ctx context.Context, ownerID, id string) (Table, error) {
	return s.EditTable(ctx, ownerID, id, ActionRowAdd, "", func(ed *Editor) error {
		if ed.RowCount() >= s.maxRows {
			return fmt.Errorf("add row: table already has %d rows: %w", ed.RowCount(), ErrIndexOutOfRange)
		}
		ed.AddRow()
		return nil
	})
}

// DeleteRow removes a row from a stored table.
func (s *Service) DeleteRow(ctx context.Context, ownerID, id string, index int) (Table, error) {
	return s.EditTable(ctx, ownerID, id, ActionRowDelete, fmt.Sprintf("row %d", index), func(ed *Editor) error {
		return ed.DeleteRow(index)
	})
}

// UpdateCell sets one cell of a stored table. The editor creates missing
// rows up to row, so row must stay below the row limit.
func (s *Service) UpdateCell(ctx context.Context, ownerID, id string, row, col int, value string) (Table, error) {
	if row >= s.maxRows {
		return Table{}, fmt.Errorf("%s: row %d is past the limit of %d rows: %w", ActionCellUpdate, row, s.maxRows, ErrIndexOutOfRange)
	}
	return s.EditTable(ctx, ownerID, id, ActionCellUpdate, fmt.Sprintf("row %d, column %d", row, col), func(ed *Editor) error {
		return ed.UpdateCell(row, col, value)
	})
}

// History returns the most recent changes to a table owned by ownerID,
// newest first. It works for deleted tables too.
func (s *Service) History(ctx context.Context, ownerID, id string) ([]AuditEntry, error) {
	entries, err := s.store.ListAudit(ctx, ownerID, id, DefaultHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("table history %s: %w", id, err)
	}
	return entries, nil
}

// ImportLimiterStatus returns the state of the import limiter.
func (s *Service) ImportLimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
