package access

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Lautaro124/curso/internal/adapters/storage"
	domain "github.com/Lautaro124/curso/internal/domain/access"
)

// SQLStore implements Store over the user_module table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new access store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// Insert records a grant.
// PRE: grant has been validated; user and module exist
// POST: Row inserted; a second grant for the same pair fails with a unique violation
func (s *SQLStore) Insert(ctx context.Context, grant domain.Grant) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO user_module (id, user_id, module_id, created_at) VALUES (?, ?, ?, ?)",
		grant.ID, grant.UserID, grant.ModuleID, storage.FormatTime(grant.CreatedAt),
	)
	return err
}

// Delete removes the grant for a pair. Removing an absent grant is not an error.
func (s *SQLStore) Delete(ctx context.Context, userID, moduleID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM user_module WHERE user_id = ? AND module_id = ?",
		userID, moduleID,
	)
	return err
}

// Exists reports whether the user holds a grant for the module.
func (s *SQLStore) Exists(ctx context.Context, userID, moduleID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM user_module WHERE user_id = ? AND module_id = ?",
		userID, moduleID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListModuleIDs returns every module id the user holds a grant for.
func (s *SQLStore) ListModuleIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT module_id FROM user_module WHERE user_id = ? ORDER BY created_at ASC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
