package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Lautaro124/curso/internal/adapters/storage"
	"github.com/Lautaro124/curso/internal/domain/access"
)

// GrantStore defines the store interface needed by module access orchestrators.
type GrantStore interface {
	Insert(ctx context.Context, grant access.Grant) error
	Delete(ctx context.Context, userID, moduleID string) error
}

// ModuleAccessInput names the grant to change.
type ModuleAccessInput struct {
	Actor    Actor
	UserID   string
	ModuleID string
}

// ModuleAccessDeps holds dependencies for EnableModule and DisableModule.
type ModuleAccessDeps struct {
	Profiles   ProfileReader
	Grants     GrantStore
	GenerateID func() string
	Now        func() time.Time
}

// grant builds the trimmed grant named by the input.
func (in ModuleAccessInput) grant() (access.Grant, error) {
	g := access.Grant{
		UserID:   strings.TrimSpace(in.UserID),
		ModuleID: strings.TrimSpace(in.ModuleID),
	}
	if err := g.Validate(); err != nil {
		return access.Grant{}, invalid(err)
	}
	return g, nil
}

// ExecuteEnableModule grants a user access to a module.
// PRE: Actor is an administrator
// POST: A grant for (UserID, ModuleID) exists; an unknown user or module is ErrNotFound;
// a pre-existing grant surfaces the store's unique violation
func ExecuteEnableModule(ctx context.Context, input ModuleAccessInput, deps ModuleAccessDeps) error {
	if err := authorizeAdmin(ctx, input.Actor, deps.Profiles, "enable_module"); err != nil {
		return err
	}
	grant, err := input.grant()
	if err != nil {
		return err
	}
	grant.ID = deps.GenerateID()
	grant.CreatedAt = deps.Now()
	if err := deps.Grants.Insert(ctx, grant); err != nil {
		if storage.IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}
	slog.Info("access_event", "event", "module_enabled", "user_id", grant.UserID, "module_id", grant.ModuleID, "by", input.Actor.ID)
	return nil
}

// ExecuteDisableModule revokes a user's access to a module.
// PRE: Actor is an administrator
// POST: No grant for (UserID, ModuleID) exists; revoking an absent grant succeeds
func ExecuteDisableModule(ctx context.Context, input ModuleAccessInput, deps ModuleAccessDeps) error {
	if err := authorizeAdmin(ctx, input.Actor, deps.Profiles, "disable_module"); err != nil {
		return err
	}
	grant, err := input.grant()
	if err != nil {
		return err
	}
	if err := deps.Grants.Delete(ctx, grant.UserID, grant.ModuleID); err != nil {
		return err
	}
	slog.Info("access_event", "event", "module_disabled", "user_id", grant.UserID, "module_id", grant.ModuleID, "by", input.Actor.ID)
	return nil
}
