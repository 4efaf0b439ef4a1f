package lesson

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Lautaro124/curso/internal/adapters/storage"
	domain "github.com/Lautaro124/curso/internal/domain/lesson"
)

const selectColumns = "SELECT id, module_id, name, description, video_url, attachments, qa, created_at FROM lesson"

// SQLStore implements Store over database/sql.
// Attachments and Q&A are stored as JSON arrays; an empty list is stored as NULL.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new lesson store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Lesson by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Lesson, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanLesson(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Lesson{}, fmt.Errorf("lesson not found: %w", err)
	}
	return entity, err
}

// Insert persists a new Lesson.
// PRE: entity has been validated and its module exists
// POST: Row inserted
func (s *SQLStore) Insert(ctx context.Context, entity domain.Lesson) error {
	attachments, qa, err := encodeLists(entity)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lesson (id, module_id, name, description, video_url, attachments, qa, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entity.ID, entity.ModuleID, entity.Name,
		storage.NullString(entity.Description), storage.NullString(entity.VideoURL),
		attachments, qa, storage.FormatTime(entity.CreatedAt),
	)
	return err
}

// Update rewrites every editable field. The parent module never changes.
// PRE: entity has been validated
// POST: Returns an error wrapping sql.ErrNoRows if no row matched
func (s *SQLStore) Update(ctx context.Context, entity domain.Lesson) error {
	attachments, qa, err := encodeLists(entity)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE lesson SET name = ?, description = ?, video_url = ?, attachments = ?, qa = ?
		 WHERE id = ?`,
		entity.Name, storage.NullString(entity.Description), storage.NullString(entity.VideoURL),
		attachments, qa, entity.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("lesson not found: %w", sql.ErrNoRows)
	}
	return nil
}

// List returns every Lesson, oldest first.
func (s *SQLStore) List(ctx context.Context) ([]domain.Lesson, error) {
	return s.query(ctx, selectColumns+" ORDER BY created_at ASC, id ASC")
}

// ListByModule returns the lessons of one module in presentation order.
// INVARIANT: ordered by creation time, ties broken by id
func (s *SQLStore) ListByModule(ctx context.Context, moduleID string) ([]domain.Lesson, error) {
	return s.query(ctx, selectColumns+" WHERE module_id = ? ORDER BY created_at ASC, id ASC", moduleID)
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) ([]domain.Lesson, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Lesson
	for rows.Next() {
		entity, err := scanLesson(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func encodeLists(entity domain.Lesson) (sql.NullString, sql.NullString, error) {
	attachments, err := encodeJSON(entity.Attachments, len(entity.Attachments))
	if err != nil {
		return sql.NullString{}, sql.NullString{}, fmt.Errorf("encode attachments: %w", err)
	}
	qa, err := encodeJSON(entity.QA, len(entity.QA))
	if err != nil {
		return sql.NullString{}, sql.NullString{}, fmt.Errorf("encode qa: %w", err)
	}
	return attachments, qa, nil
}

func encodeJSON(v any, n int) (sql.NullString, error) {
	if n == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanLesson(scan func(dest ...any) error) (domain.Lesson, error) {
	var entity domain.Lesson
	var description, videoURL, attachments, qa sql.NullString
	var createdAt string
	if err := scan(&entity.ID, &entity.ModuleID, &entity.Name, &description, &videoURL,
		&attachments, &qa, &createdAt); err != nil {
		return domain.Lesson{}, err
	}
	entity.Description = description.String
	entity.VideoURL = videoURL.String
	if attachments.Valid && attachments.String != "" {
		if err := json.Unmarshal([]byte(attachments.String), &entity.Attachments); err != nil {
			return domain.Lesson{}, fmt.Errorf("decode attachments of lesson %s: %w", entity.ID, err)
		}
	}
	if qa.Valid && qa.String != "" {
		if err := json.Unmarshal([]byte(qa.String), &entity.QA); err != nil {
			return domain.Lesson{}, fmt.Errorf("decode qa of lesson %s: %w", entity.ID, err)
		}
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}
