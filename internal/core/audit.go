package core

import (
	"context"
	"log/slog"
	"time"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionTableCreate  AuditAction = "table_create"
	ActionTableImport  AuditAction = "table_import"
	ActionTableUpdate  AuditAction = "table_update"
	ActionTableDelete  AuditAction = "table_delete"
	ActionColumnAdd    AuditAction = "column_add"
	ActionColumnDelete AuditAction = "column_delete"
	ActionRowAdd       AuditAction = "row_add"
	ActionRowDelete    AuditAction = "row_delete"
	ActionCellUpdate   AuditAction = "cell_update"
)

// AuditEntry records one change to a table.
type AuditEntry struct {
	ID        string      `json:"id"`
	TableID   string      `json:"tableId"`
	UserID    string      `json:"userId"`
	Action    AuditAction `json:"action"`
	Detail    string      `json:"detail,omitempty"`
	IPAddress string      `json:"ipAddress,omitempty"`
	UserAgent string      `json:"userAgent,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// recordAudit stores an audit entry for a change that already succeeded.
// Failures are logged and never undo the change.
func (s *Service) recordAudit(ctx context.Context, t Table, action AuditAction, detail string) {
	entry := AuditEntry{
		TableID:   t.ID,
		UserID:    t.OwnerID,
		Action:    action,
		Detail:    detail,
		IPAddress: IPAddressFromContext(ctx),
		UserAgent: UserAgentFromContext(ctx),
	}

	if err := s.store.RecordAudit(ctx, entry); err != nil {
		slog.WarnContext(ctx, "audit: failed to record entry",
			"table_id", t.ID,
			"action", action,
			"error", err,
		)
	}
}
