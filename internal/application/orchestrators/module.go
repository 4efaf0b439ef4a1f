package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Lautaro124/curso/internal/domain/course"
	"github.com/Lautaro124/curso/internal/domain/module"
)

// CourseLookup checks that a parent course exists.
type CourseLookup interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
}

// ModuleStore defines the store interface needed by module orchestrators.
type ModuleStore interface {
	GetByID(ctx context.Context, id string) (module.Module, error)
	Insert(ctx context.Context, m module.Module) error
	Update(ctx context.Context, m module.Module) error
}

// ModuleDeps holds dependencies for module orchestrators.
type ModuleDeps struct {
	Profiles   ProfileReader
	Courses    CourseLookup
	Modules    ModuleStore
	GenerateID func() string
	Now        func() time.Time
}

// CreateModuleInput carries input for CreateModule. IsPaid is the raw checkbox value.
type CreateModuleInput struct {
	Actor    Actor
	CourseID string
	Name     string
	IsPaid   string
}

// UpdateModuleInput carries input for UpdateModule.
type UpdateModuleInput struct {
	Actor    Actor
	ModuleID string
	Name     string
	IsPaid   string
}

// ExecuteCreateModule creates a module inside an existing course.
// PRE: Actor is an administrator
// POST: Module persisted; IsPaid is true only for a checked box
func ExecuteCreateModule(ctx context.Context, input CreateModuleInput, deps ModuleDeps) (module.Module, error) {
	if err := authorizeAdmin(ctx, input.Actor, deps.Profiles, "create_module"); err != nil {
		return module.Module{}, err
	}
	m := module.Module{
		ID:        deps.GenerateID(),
		CourseID:  input.CourseID,
		Name:      input.Name,
		IsPaid:    module.ParsePaidFlag(input.IsPaid),
		CreatedAt: deps.Now(),
	}
	m.Normalize()
	if err := m.Validate(); err != nil {
		return module.Module{}, invalid(err)
	}
	if _, err := deps.Courses.GetByID(ctx, m.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return module.Module{}, ErrNotFound
		}
		return module.Module{}, err
	}
	if err := deps.Modules.Insert(ctx, m); err != nil {
		return module.Module{}, err
	}
	slog.Info("module_event", "event", "module_created", "module_id", m.ID, "course_id", m.CourseID, "by", input.Actor.ID)
	return m, nil
}

// ExecuteUpdateModule edits a module's name and paid flag. The parent course is unchanged.
// PRE: Actor is an administrator; ModuleID names an existing module
// POST: Module updated
func ExecuteUpdateModule(ctx context.Context, input UpdateModuleInput, deps ModuleDeps) (module.Module, error) {
	if err := authorizeAdmin(ctx, input.Actor, deps.Profiles, "update_module"); err != nil {
		return module.Module{}, err
	}
	id := strings.TrimSpace(input.ModuleID)
	if id == "" {
		return module.Module{}, invalidf("module id is required")
	}
	m := module.Module{ID: id, Name: input.Name, IsPaid: module.ParsePaidFlag(input.IsPaid)}
	m.Normalize()
	if err := m.ValidateFields(); err != nil {
		return module.Module{}, invalid(err)
	}

	existing, err := deps.Modules.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return module.Module{}, ErrNotFound
	}
	if err != nil {
		return module.Module{}, err
	}
	m.CourseID = existing.CourseID
	m.CreatedAt = existing.CreatedAt
	if err := deps.Modules.Update(ctx, m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return module.Module{}, ErrNotFound
		}
		return module.Module{}, err
	}
	slog.Info("module_event", "event", "module_updated", "module_id", id, "by", input.Actor.ID)
	return m, nil
}
