package audit

import (
	"context"
	"database/sql"

	"github.com/Lautaro124/curso/internal/adapters/storage"
	domain "github.com/Lautaro124/curso/internal/domain/audit"
)

const eventColumns = "id, occurred_at, category, action, actor_id, resource_type, resource_id, subject_id, description, ip_address"

// SQLStore implements Store over the audit_event table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new audit event store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Save persists an audit event.
func (s *SQLStore) Save(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO audit_event ("+eventColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, storage.FormatTime(e.OccurredAt), string(e.Category), string(e.Action), e.ActorID,
		e.ResourceType, e.ResourceID, e.SubjectID, e.Description, e.IPAddress,
	)
	return err
}

// List returns audit events matching filter, newest first.
func (s *SQLStore) List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error) {
	query := "SELECT " + eventColumns + " FROM audit_event WHERE 1=1"
	var args []any

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if filter.ActorID != "" {
		query += " AND actor_id = ?"
		args = append(args, filter.ActorID)
	}
	if filter.SubjectID != "" {
		query += " AND subject_id = ?"
		args = append(args, filter.SubjectID)
	}
	query += " ORDER BY occurred_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var occurredAt string
		if err := rows.Scan(&e.ID, &occurredAt, &e.Category, &e.Action, &e.ActorID,
			&e.ResourceType, &e.ResourceID, &e.SubjectID, &e.Description, &e.IPAddress); err != nil {
			return nil, err
		}
		e.OccurredAt, _ = storage.ParseTime(occurredAt)
		events = append(events, e)
	}
	return events, rows.Err()
}
