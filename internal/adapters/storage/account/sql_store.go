package account

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Lautaro124/curso/internal/adapters/storage"
	domain "github.com/Lautaro124/curso/internal/domain/account"
)

const accountColumns = "SELECT id, email, password_hash, created_at, failed_logins, locked_until, metadata FROM account"

const profileColumns = `SELECT p.id, a.email, p.full_name, p.occupation, p.birth_date, p.phone, p.is_admin, p.created_at
	FROM profile p JOIN account a ON a.id = p.id`

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new account store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, accountColumns+" WHERE id = ?", id)
	entity, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves an Account by email, case-insensitively.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows if not found
func (s *SQLStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, accountColumns+" WHERE email = ?", strings.ToLower(strings.TrimSpace(email)))
	entity, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return entity, err
}

// Save persists an Account (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLStore) Save(ctx context.Context, entity domain.Account) error {
	args, err := accountArgs(entity)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, upsertAccount, args...)
	return err
}

const upsertAccount = `INSERT INTO account (id, email, password_hash, created_at, failed_logins, locked_until, metadata)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		email = excluded.email,
		password_hash = excluded.password_hash,
		failed_logins = excluded.failed_logins,
		locked_until = excluded.locked_until,
		metadata = excluded.metadata`

func accountArgs(entity domain.Account) ([]any, error) {
	metadata := "{}"
	if len(entity.Metadata) > 0 {
		data, err := json.Marshal(entity.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode account metadata: %w", err)
		}
		metadata = string(data)
	}
	return []any{
		entity.ID,
		strings.ToLower(strings.TrimSpace(entity.Email)),
		entity.PasswordHash,
		storage.FormatTime(entity.CreatedAt),
		entity.FailedLogins,
		storage.NullTime(entity.LockedUntil),
		metadata,
	}, nil
}

// Count returns the total number of accounts.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

// Register writes a new account and its profile in one transaction.
// PRE: acct and profile are validated; profile.ID == acct.ID
// POST: Both rows exist or neither does; a taken email fails with a unique violation
func (s *SQLStore) Register(ctx context.Context, acct domain.Account, profile domain.Profile) error {
	args, err := accountArgs(acct)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.db.Rebind(
		"INSERT INTO account (id, email, password_hash, created_at, failed_logins, locked_until, metadata) VALUES (?, ?, ?, ?, ?, ?, ?)",
	), args...); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.db.Rebind(
		"INSERT INTO profile (id, full_name, occupation, birth_date, phone, is_admin, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
	),
		acct.ID, profile.FullName, profile.Occupation, profile.BirthDate, profile.Phone,
		nullBool(profile.IsAdmin), storage.FormatTime(profile.CreatedAt),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// GetProfile retrieves a Profile with its account email.
// PRE: id is non-empty
// POST: Returns the profile or an error wrapping sql.ErrNoRows if not found
func (s *SQLStore) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, profileColumns+" WHERE p.id = ?", id)
	p, err := scanProfile(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("profile not found: %w", err)
	}
	return p, err
}

// SetAdmin sets the profile's admin flag.
// POST: Returns an error wrapping sql.ErrNoRows if the profile does not exist
func (s *SQLStore) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE profile SET is_admin = ? WHERE id = ?", isAdmin, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("profile not found: %w", sql.ErrNoRows)
	}
	return nil
}

// ListProfiles returns every profile, newest first.
func (s *SQLStore) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.db.QueryContext(ctx, profileColumns+" ORDER BY p.created_at DESC, p.id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt, metadata string
	var lockedUntil sql.NullString
	if err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
		&metadata,
	); err != nil {
		return domain.Account{}, err
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	if lockedUntil.Valid && lockedUntil.String != "" {
		entity.LockedUntil, _ = storage.ParseTime(lockedUntil.String)
	}
	if metadata != "" && metadata != "{}" {
		if err := json.Unmarshal([]byte(metadata), &entity.Metadata); err != nil {
			return domain.Account{}, fmt.Errorf("decode metadata of account %s: %w", entity.ID, err)
		}
	}
	return entity, nil
}

func scanProfile(scan func(dest ...any) error) (domain.Profile, error) {
	var p domain.Profile
	var isAdmin sql.NullBool
	var createdAt string
	if err := scan(&p.ID, &p.Email, &p.FullName, &p.Occupation, &p.BirthDate, &p.Phone, &isAdmin, &createdAt); err != nil {
		return domain.Profile{}, err
	}
	if isAdmin.Valid {
		v := isAdmin.Bool
		p.IsAdmin = &v
	}
	p.CreatedAt, _ = storage.ParseTime(createdAt)
	return p, nil
}
