package module

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lautaro124/curso/internal/adapters/storage"
	domain "github.com/Lautaro124/curso/internal/domain/module"
)

const selectColumns = "SELECT id, course_id, name, is_paid, created_at FROM module"

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new module store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves a Module by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Module, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanModule(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Module{}, fmt.Errorf("module not found: %w", err)
	}
	return entity, err
}

// Insert persists a new Module.
// PRE: entity has been validated and its course exists
// POST: Row inserted
func (s *SQLStore) Insert(ctx context.Context, entity domain.Module) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO module (id, course_id, name, is_paid, created_at) VALUES (?, ?, ?, ?, ?)",
		entity.ID, entity.CourseID, entity.Name, entity.IsPaid, storage.FormatTime(entity.CreatedAt),
	)
	return err
}

// Update rewrites name and paid flag. The parent course never changes.
// PRE: entity has been validated
// POST: Returns an error wrapping sql.ErrNoRows if no row matched
func (s *SQLStore) Update(ctx context.Context, entity domain.Module) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE module SET name = ?, is_paid = ? WHERE id = ?",
		entity.Name, entity.IsPaid, entity.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("module not found: %w", sql.ErrNoRows)
	}
	return nil
}

// List returns every Module, oldest first.
func (s *SQLStore) List(ctx context.Context) ([]domain.Module, error) {
	return s.query(ctx, selectColumns+" ORDER BY created_at ASC, id ASC")
}

// ListByCourse returns the modules of one course, oldest first.
// PRE: courseID is non-empty
func (s *SQLStore) ListByCourse(ctx context.Context, courseID string) ([]domain.Module, error) {
	return s.query(ctx, selectColumns+" WHERE course_id = ? ORDER BY created_at ASC, id ASC", courseID)
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) ([]domain.Module, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Module
	for rows.Next() {
		entity, err := scanModule(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanModule(scan func(dest ...any) error) (domain.Module, error) {
	var entity domain.Module
	var createdAt string
	if err := scan(&entity.ID, &entity.CourseID, &entity.Name, &entity.IsPaid, &createdAt); err != nil {
		return domain.Module{}, err
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}
