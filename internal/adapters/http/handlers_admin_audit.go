package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lautaro124/curso/internal/adapters/http/middleware"
	auditStore "github.com/Lautaro124/curso/internal/adapters/storage/audit"
	"github.com/Lautaro124/curso/internal/application/orchestrators"
	"github.com/Lautaro124/curso/internal/domain/audit"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
	// recent access changes shown on a user's module page
	userAuditLimit = 10
)

// recordAudit stores an audit event for a mutation that succeeded.
func recordAudit(r *http.Request, event audit.Event) {
	orchestrators.ExecuteRecordAudit(r.Context(), event.WithIP(middleware.ClientIP(r)), orchestrators.RecordAuditDeps{
		Events:     stores.AuditStore,
		GenerateID: generateID,
		Now:        timeNow,
	})
}

// recentAccessChanges lists the latest grant changes for a user; nil when auditing is off.
func recentAccessChanges(r *http.Request, userID string) []audit.Event {
	if stores.AuditStore == nil {
		return nil
	}
	events, err := stores.AuditStore.List(r.Context(), auditStore.Filter{
		Category:  audit.CategoryAccess,
		SubjectID: userID,
	}, userAuditLimit)
	if err != nil {
		slog.Error("internal_error", "event", "audit_list_failed", "user_id", userID, "error", err)
		return nil
	}
	return events
}

// handleAdminAuditTrail handles GET /admin/audit
func handleAdminAuditTrail(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdminPage(w, r); !ok {
		return
	}
	if stores.AuditStore == nil {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	filter := auditStore.Filter{
		ActorID:   q.Get("actor_id"),
		SubjectID: q.Get("subject_id"),
	}
	switch c := audit.Category(q.Get("category")); c {
	case audit.CategoryContent, audit.CategoryAccess:
		filter.Category = c
	}

	limit := defaultAuditLimit
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= maxAuditLimit {
		limit = l
	}

	events, err := stores.AuditStore.List(r.Context(), filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_audit.html", map[string]any{
		"Events": events,
		"Filter": filter,
		"Limit":  limit,
	})
}
