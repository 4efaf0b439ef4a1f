package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

// TestIsPermissionDenied covers the sentinel, SQLSTATE and message forms.
func TestIsPermissionDenied(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrPermissionDenied, true},
		{"wrapped sentinel", fmt.Errorf("update course: %w", ErrPermissionDenied), true},
		{"pg 42501", &pgconn.PgError{Code: "42501", Message: "permission denied for table course"}, true},
		{"wrapped pg 42501", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "42501"}), true},
		{"pg other", &pgconn.PgError{Code: "23505"}, false},
		{"message", errors.New("ERROR: permission denied for table course"), true},
		{"unrelated", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPermissionDenied(tt.err); got != tt.want {
				t.Errorf("IsPermissionDenied() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestIsUniqueViolation covers Postgres and SQLite forms.
func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pg 23505", &pgconn.PgError{Code: "23505"}, true},
		{"pg 42501", &pgconn.PgError{Code: "42501"}, false},
		{"sqlite message", errors.New("constraint failed: UNIQUE constraint failed: user_module.user_id, user_module.module_id (2067)"), true},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
