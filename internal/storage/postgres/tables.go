package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/tablekeeper/internal/core"
)

var _ core.Store = (*Store)(nil)

const tableColumns = `id, owner_id, name, column_defs, row_data, created_at, updated_at`

// SaveTable inserts t when it has no ID, otherwise replaces the owned row.
func (s *Store) SaveTable(ctx context.Context, t core.Table) (core.Table, error) {
	if t.Rows == nil {
		t.Rows = []core.Row{}
	}
	cols, err := json.Marshal(t.Columns)
	if err != nil {
		return core.Table{}, fmt.Errorf("encode columns: %w", err)
	}
	rows, err := json.Marshal(t.Rows)
	if err != nil {
		return core.Table{}, fmt.Errorf("encode rows: %w", err)
	}

	if t.ID == "" {
		row := s.pool.QueryRow(ctx, `
			INSERT INTO user_tables (id, owner_id, name, column_defs, row_data)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+tableColumns,
			uuid.NewString(), t.OwnerID, t.Name, cols, rows,
		)
		saved, err := scanTable(row)
		if err != nil {
			return core.Table{}, fmt.Errorf("insert table: %w", err)
		}
		return saved, nil
	}

	if !validID(t.ID) {
		return core.Table{}, core.ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE user_tables
		SET name = $3, column_defs = $4, row_data = $5, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+tableColumns,
		t.ID, t.OwnerID, t.Name, cols, rows,
	)
	saved, err := scanTable(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Table{}, core.ErrNotFound
	}
	if err != nil {
		return core.Table{}, fmt.Errorf("update table: %w", err)
	}
	return saved, nil
}

// FindTable returns the table with id if ownerID owns it.
func (s *Store) FindTable(ctx context.Context, ownerID, id string) (core.Table, error) {
	if !validID(id) || !validID(ownerID) {
		return core.Table{}, core.ErrNotFound
	}

	row := s.pool.QueryRow(ctx,
		`SELECT `+tableColumns+` FROM user_tables WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	t, err := scanTable(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Table{}, core.ErrNotFound
	}
	if err != nil {
		return core.Table{}, fmt.Errorf("find table: %w", err)
	}
	return t, nil
}

// ListTables returns ownerID's tables, most recently updated first.
func (s *Store) ListTables(ctx context.Context, ownerID string) ([]core.Table, error) {
	if !validID(ownerID) {
		return []core.Table{}, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+tableColumns+` FROM user_tables WHERE owner_id = $1 ORDER BY updated_at DESC, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	tables := []core.Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// DeleteTable removes the table with id if ownerID owns it.
func (s *Store) DeleteTable(ctx context.Context, ownerID, id string) error {
	if !validID(id) || !validID(ownerID) {
		return core.ErrNotFound
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM user_tables WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// scanTable reads one user_tables row selected with tableColumns.
func scanTable(row pgx.Row) (core.Table, error) {
	var (
		t          core.Table
		id, owner  uuid.UUID
		cols, data []byte
		created    time.Time
		updated    time.Time
	)
	if err := row.Scan(&id, &owner, &t.Name, &cols, &data, &created, &updated); err != nil {
		return core.Table{}, err
	}

	if err := json.Unmarshal(cols, &t.Columns); err != nil {
		return core.Table{}, fmt.Errorf("decode columns of %s: %w", id, err)
	}
	if err := json.Unmarshal(data, &t.Rows); err != nil {
		return core.Table{}, fmt.Errorf("decode rows of %s: %w", id, err)
	}
	if t.Rows == nil {
		t.Rows = []core.Row{}
	}

	t.ID = id.String()
	t.OwnerID = owner.String()
	t.CreatedAt = created.UTC()
	t.UpdatedAt = updated.UTC()
	t.Normalize()
	return t, nil
}

// validID reports whether s can be compared against a UUID column.
// Anything else cannot match a row.
func validID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
