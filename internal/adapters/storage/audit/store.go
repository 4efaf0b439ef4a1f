package audit

import (
	"context"

	domain "github.com/Lautaro124/curso/internal/domain/audit"
)

// Store persists audit events.
type Store interface {
	// Save persists an audit event.
	// PRE: event is valid and has an ID
	// POST: Event is persisted
	Save(ctx context.Context, event domain.Event) error

	// List returns audit events matching filter.
	// PRE: limit > 0
	// POST: Returns events ordered by time, newest first
	List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error)
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Category  domain.Category
	ActorID   string
	SubjectID string
}

// Ensure SQLStore implements Store interface.
var _ Store = (*SQLStore)(nil)
