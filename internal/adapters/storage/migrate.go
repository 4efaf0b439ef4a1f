package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// migration is one schema step. Statements must be valid on both SQLite and Postgres.
type migration struct {
	version    int
	name       string
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "baseline",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS account (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				failed_logins INTEGER NOT NULL DEFAULT 0,
				locked_until TEXT,
				metadata TEXT NOT NULL DEFAULT '{}'
			)`,
			`CREATE TABLE IF NOT EXISTS profile (
				id TEXT PRIMARY KEY,
				full_name TEXT NOT NULL DEFAULT '',
				occupation TEXT NOT NULL DEFAULT '',
				birth_date TEXT NOT NULL DEFAULT '',
				phone TEXT NOT NULL DEFAULT '',
				is_admin BOOLEAN,
				created_at TEXT NOT NULL,
				FOREIGN KEY (id) REFERENCES account(id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS course (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				preview_image TEXT,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS module (
				id TEXT PRIMARY KEY,
				course_id TEXT NOT NULL,
				name TEXT NOT NULL,
				is_paid BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TEXT NOT NULL,
				FOREIGN KEY (course_id) REFERENCES course(id)
			)`,
			`CREATE TABLE IF NOT EXISTS lesson (
				id TEXT PRIMARY KEY,
				module_id TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT,
				video_url TEXT,
				attachments TEXT,
				qa TEXT,
				created_at TEXT NOT NULL,
				FOREIGN KEY (module_id) REFERENCES module(id)
			)`,
			`CREATE TABLE IF NOT EXISTS user_module (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				module_id TEXT NOT NULL,
				created_at TEXT NOT NULL,
				UNIQUE (user_id, module_id),
				FOREIGN KEY (user_id) REFERENCES account(id) ON DELETE CASCADE,
				FOREIGN KEY (module_id) REFERENCES module(id)
			)`,
		},
	},
	{
		version: 2,
		name:    "ordering_indexes",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_module_course ON module (course_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_lesson_module ON lesson (module_id, created_at, id)`,
			`CREATE INDEX IF NOT EXISTS idx_user_module_user ON user_module (user_id)`,
		},
	},
	{
		version: 3,
		name:    "audit_event",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS audit_event (
				id TEXT PRIMARY KEY,
				occurred_at TEXT NOT NULL,
				category TEXT NOT NULL,
				action TEXT NOT NULL,
				actor_id TEXT NOT NULL,
				resource_type TEXT NOT NULL DEFAULT '',
				resource_id TEXT NOT NULL DEFAULT '',
				subject_id TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				ip_address TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS idx_audit_event_time ON audit_event (occurred_at)`,
			`CREATE INDEX IF NOT EXISTS idx_audit_event_subject ON audit_event (subject_id, occurred_at)`,
		},
	},
}

// LatestSchemaVersion returns the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

func ensureVersionTable(ctx context.Context, db SQLDB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL,
		applied_at TEXT NOT NULL
	)`)
	return err
}

// SchemaVersion returns the highest applied migration, 0 for a fresh database.
// PRE: db is a valid connection
// POST: schema_version table exists
func SchemaVersion(ctx context.Context, db SQLDB) (int, error) {
	if err := ensureVersionTable(ctx, db); err != nil {
		return 0, fmt.Errorf("create schema_version: %w", err)
	}
	var version int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return version, nil
}

// MigrateDB applies every pending migration, each in its own transaction.
// PRE: db is a valid connection
// POST: SchemaVersion(db) == LatestSchemaVersion(); already-applied steps are skipped
func MigrateDB(ctx context.Context, db SQLDB) error {
	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("schema_event", "event", "migration_applied", "version", m.version, "name", m.name)
	}
	return nil
}

func applyMigration(ctx context.Context, db SQLDB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	insert := db.Rebind("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)")
	if _, err := tx.ExecContext(ctx, insert, m.version, FormatTime(time.Now())); err != nil {
		return err
	}
	return tx.Commit()
}
