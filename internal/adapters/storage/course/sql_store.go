package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lautaro124/curso/internal/adapters/storage"
	domain "github.com/Lautaro124/curso/internal/domain/course"
)

const selectColumns = "SELECT id, name, preview_image, created_at FROM course"

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new course store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Course by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Course, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanCourse(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Course{}, fmt.Errorf("course not found: %w", err)
	}
	return entity, err
}

// Insert persists a new Course.
// PRE: entity has been validated, ID is unique
// POST: Row inserted
func (s *SQLStore) Insert(ctx context.Context, entity domain.Course) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO course (id, name, preview_image, created_at) VALUES (?, ?, ?, ?)",
		entity.ID, entity.Name, storage.NullString(entity.PreviewImage), storage.FormatTime(entity.CreatedAt),
	)
	return err
}

// Update rewrites the editable fields of an existing Course.
// PRE: entity has been validated
// POST: Returns an error wrapping sql.ErrNoRows if no row matched
func (s *SQLStore) Update(ctx context.Context, entity domain.Course) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE course SET name = ?, preview_image = ? WHERE id = ?",
		entity.Name, storage.NullString(entity.PreviewImage), entity.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("course not found: %w", sql.ErrNoRows)
	}
	return nil
}

// List returns every Course, newest first.
func (s *SQLStore) List(ctx context.Context) ([]domain.Course, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Course
	for rows.Next() {
		entity, err := scanCourse(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanCourse(scan func(dest ...any) error) (domain.Course, error) {
	var entity domain.Course
	var preview sql.NullString
	var createdAt string
	if err := scan(&entity.ID, &entity.Name, &preview, &createdAt); err != nil {
		return domain.Course{}, err
	}
	entity.PreviewImage = preview.String
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}
