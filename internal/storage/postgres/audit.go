package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JonMunkholm/tablekeeper/internal/core"
)

// RecordAudit appends an entry to the change history.
func (s *Store) RecordAudit(ctx context.Context, e core.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO table_audit_log (id, table_id, user_id, action, detail, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.TableID, e.UserID, string(e.Action), e.Detail, e.IPAddress, e.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

// ListAudit returns up to limit entries for the table, newest first.
func (s *Store) ListAudit(ctx context.Context, ownerID, tableID string, limit int) ([]core.AuditEntry, error) {
	if !validID(ownerID) || !validID(tableID) {
		return []core.AuditEntry{}, nil
	}
	if limit <= 0 {
		limit = core.DefaultHistoryLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, table_id, user_id, action, detail, ip_address, user_agent, created_at
		FROM table_audit_log
		WHERE table_id = $1 AND user_id = $2
		ORDER BY created_at DESC, id
		LIMIT $3`,
		tableID, ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()

	entries := []core.AuditEntry{}
	for rows.Next() {
		var (
			e               core.AuditEntry
			id, table, user uuid.UUID
			action          string
		)
		if err := rows.Scan(&id, &table, &user, &action, &e.Detail, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("list audit: %w", err)
		}
		e.ID = id.String()
		e.TableID = table.String()
		e.UserID = user.String()
		e.Action = core.AuditAction(action)
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	return entries, nil
}
