package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/Lautaro124/curso/internal/domain/audit"
)

// AuditRecorder persists audit events.
type AuditRecorder interface {
	Save(ctx context.Context, event audit.Event) error
}

// RecordAuditDeps holds dependencies for RecordAudit.
type RecordAuditDeps struct {
	Events     AuditRecorder
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteRecordAudit stores an audit event for a mutation that already succeeded.
// PRE: The audited change has been committed
// POST: Event persisted; invalid events and store failures are logged and dropped
func ExecuteRecordAudit(ctx context.Context, event audit.Event, deps RecordAuditDeps) {
	if deps.Events == nil {
		return
	}
	if err := event.Validate(); err != nil {
		slog.Warn("audit_event", "event", "invalid_event", "error", err)
		return
	}
	event.ID = deps.GenerateID()
	event.OccurredAt = deps.Now()
	if err := deps.Events.Save(ctx, event); err != nil {
		slog.Error("internal_error", "event", "audit_save_failed", "action", event.Action, "resource_id", event.ResourceID, "error", err)
	}
}
