package orchestrators

import (
	"context"
	"errors"
	"testing"

	"github.com/Lautaro124/curso/internal/domain/account"
)

// TestExecuteResolveAdmin walks the profile-then-session resolution order.
func TestExecuteResolveAdmin(t *testing.T) {
	tests := []struct {
		name     string
		profile  *account.Profile
		lookup   error
		session  Actor
		userID   string
		expected bool
	}{
		{
			name:     "profile flag true",
			profile:  &account.Profile{ID: "u1", IsAdmin: boolPtr(true)},
			userID:   "u1",
			expected: true,
		},
		{
			name:     "profile flag false wins over session metadata",
			profile:  &account.Profile{ID: "u1", IsAdmin: boolPtr(false)},
			session:  Actor{ID: "u1", Metadata: map[string]any{"is_admin": true}},
			userID:   "u1",
			expected: false,
		},
		{
			name:     "unset flag falls back to boolean metadata",
			profile:  &account.Profile{ID: "u1"},
			session:  Actor{ID: "u1", Metadata: map[string]any{"is_admin": true}},
			userID:   "u1",
			expected: true,
		},
		{
			name:     "unset flag falls back to string metadata",
			profile:  &account.Profile{ID: "u1"},
			session:  Actor{ID: "u1", Metadata: map[string]any{"is_admin": "true"}},
			userID:   "u1",
			expected: true,
		},
		{
			name:     "other metadata values are not admin",
			profile:  &account.Profile{ID: "u1"},
			session:  Actor{ID: "u1", Metadata: map[string]any{"is_admin": "yes"}},
			userID:   "u1",
			expected: false,
		},
		{
			name:     "lookup failure falls back to session",
			lookup:   errors.New("connection reset"),
			session:  Actor{ID: "u1", Metadata: map[string]any{"is_admin": true}},
			userID:   "u1",
			expected: true,
		},
		{
			name:     "session of a different user is ignored",
			session:  Actor{ID: "u2", Metadata: map[string]any{"is_admin": true}},
			userID:   "u1",
			expected: false,
		},
		{
			name:     "nothing known fails closed",
			userID:   "u1",
			expected: false,
		},
		{
			name:     "empty user id",
			session:  Actor{ID: "", Metadata: map[string]any{"is_admin": true}},
			userID:   "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &mockProfiles{profiles: map[string]account.Profile{}, err: tt.lookup}
			if tt.profile != nil {
				profiles.profiles[tt.profile.ID] = *tt.profile
			}
			got := ExecuteResolveAdmin(context.Background(),
				ResolveAdminInput{UserID: tt.userID, Session: tt.session},
				ResolveAdminDeps{Profiles: profiles})
			if got != tt.expected {
				t.Errorf("ExecuteResolveAdmin() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// TestAuthorizeAdmin verifies the gate's error outcomes.
func TestAuthorizeAdmin(t *testing.T) {
	profiles := newMockProfiles()
	ctx := context.Background()
	if err := authorizeAdmin(ctx, Actor{}, profiles, "op"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("anonymous err = %v", err)
	}
	if err := authorizeAdmin(ctx, studentActor, profiles, "op"); !errors.Is(err, ErrForbidden) {
		t.Errorf("student err = %v", err)
	}
	if err := authorizeAdmin(ctx, adminActor, profiles, "op"); err != nil {
		t.Errorf("admin err = %v", err)
	}
}
