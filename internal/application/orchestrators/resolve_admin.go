package orchestrators

import (
	"context"
	"log/slog"

	"github.com/Lautaro124/curso/internal/domain/account"
)

// ProfileReader loads a user's profile for role resolution.
type ProfileReader interface {
	GetProfile(ctx context.Context, id string) (account.Profile, error)
}

// Actor is the signed-in user performing an operation, as carried by the session.
type Actor struct {
	ID       string
	Metadata map[string]any
}

// AdminSource is one step of admin resolution.
// decided is false when the source has no answer and the next step should run.
type AdminSource interface {
	IsAdmin(ctx context.Context, userID string) (isAdmin, decided bool)
}

type profileAdminSource struct {
	profiles ProfileReader
}

// IsAdmin answers from the profile flag when the profile exists and the flag is set.
func (s profileAdminSource) IsAdmin(ctx context.Context, userID string) (bool, bool) {
	if s.profiles == nil {
		return false, false
	}
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		slog.Debug("auth_event", "event", "admin_profile_lookup_failed", "user_id", userID, "error", err)
		return false, false
	}
	return p.AdminFlag()
}

type sessionMetadataAdminSource struct {
	sessionUserID string
	metadata      map[string]any
}

// IsAdmin answers from session metadata, only for the session's own user.
func (s sessionMetadataAdminSource) IsAdmin(_ context.Context, userID string) (bool, bool) {
	if s.sessionUserID == "" || s.sessionUserID != userID {
		return false, false
	}
	return account.MetadataClaimsAdmin(s.metadata), true
}

// ResolveAdminInput carries the user to check and the caller's session.
type ResolveAdminInput struct {
	UserID  string
	Session Actor
}

// ResolveAdminDeps holds dependencies for ResolveAdmin.
type ResolveAdminDeps struct {
	Profiles ProfileReader
}

// ExecuteResolveAdmin reports whether UserID is an administrator.
// PRE: none
// POST: Profile flag wins when set; otherwise session metadata of the same user decides
// INVARIANT: any lookup failure yields false
func ExecuteResolveAdmin(ctx context.Context, input ResolveAdminInput, deps ResolveAdminDeps) bool {
	if input.UserID == "" {
		return false
	}
	sources := []AdminSource{
		profileAdminSource{profiles: deps.Profiles},
		sessionMetadataAdminSource{sessionUserID: input.Session.ID, metadata: input.Session.Metadata},
	}
	for _, src := range sources {
		if isAdmin, decided := src.IsAdmin(ctx, input.UserID); decided {
			return isAdmin
		}
	}
	return false
}

// authorizeAdmin gates a mutation on the actor being an administrator.
func authorizeAdmin(ctx context.Context, actor Actor, profiles ProfileReader, op string) error {
	if actor.ID == "" {
		return ErrNotAuthenticated
	}
	if !ExecuteResolveAdmin(ctx, ResolveAdminInput{UserID: actor.ID, Session: actor}, ResolveAdminDeps{Profiles: profiles}) {
		slog.Info("auth_event", "event", "admin_denied", "user_id", actor.ID, "op", op)
		return ErrForbidden
	}
	return nil
}
