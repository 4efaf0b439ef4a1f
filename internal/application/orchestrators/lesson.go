package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Lautaro124/curso/internal/domain/lesson"
	"github.com/Lautaro124/curso/internal/domain/module"
)

// ModuleLookup checks that a parent module exists.
type ModuleLookup interface {
	GetByID(ctx context.Context, id string) (module.Module, error)
}

// LessonStore defines the store interface needed by lesson orchestrators.
type LessonStore interface {
	GetByID(ctx context.Context, id string) (lesson.Lesson, error)
	Insert(ctx context.Context, l lesson.Lesson) error
	Update(ctx context.Context, l lesson.Lesson) error
}

// LessonDeps holds dependencies for lesson orchestrators.
type LessonDeps struct {
	Profiles   ProfileReader
	Modules    ModuleLookup
	Lessons    LessonStore
	GenerateID func() string
	Now        func() time.Time
}

// LessonFields are the editable lesson fields as submitted by the form.
// Attachments and QA are raw JSON arrays; blank means none.
type LessonFields struct {
	Name        string
	Description string
	VideoURL    string
	Attachments string
	QA          string
}

// CreateLessonInput carries input for CreateLesson.
type CreateLessonInput struct {
	Actor    Actor
	ModuleID string
	LessonFields
}

// UpdateLessonInput carries input for UpdateLesson.
type UpdateLessonInput struct {
	Actor    Actor
	LessonID string
	LessonFields
}

// apply parses and validates the submitted fields onto l. The parent module is left to the caller.
func (f LessonFields) apply(l *lesson.Lesson) error {
	attachments, err := lesson.ParseAttachments(f.Attachments)
	if err != nil {
		return invalid(err)
	}
	qa, err := lesson.ParseQA(f.QA)
	if err != nil {
		return invalid(err)
	}
	l.Name = f.Name
	l.Description = f.Description
	l.VideoURL = f.VideoURL
	l.Attachments = attachments
	l.QA = qa
	l.Normalize()
	if err := l.ValidateFields(); err != nil {
		return invalid(err)
	}
	return nil
}

// ExecuteCreateLesson creates a lesson inside an existing module.
// PRE: Actor is an administrator
// POST: Lesson persisted; attachment and Q&A lists are fully validated before the write
func ExecuteCreateLesson(ctx context.Context, input CreateLessonInput, deps LessonDeps) (lesson.Lesson, error) {
	if err := authorizeAdmin(ctx, input.Actor, deps.Profiles, "create_lesson"); err != nil {
		return lesson.Lesson{}, err
	}
	l := lesson.Lesson{
		ID:        deps.GenerateID(),
		ModuleID:  strings.TrimSpace(input.ModuleID),
		CreatedAt: deps.Now(),
	}
	if err := input.LessonFields.apply(&l); err != nil {
		return lesson.Lesson{}, err
	}
	if err := l.Validate(); err != nil {
		return lesson.Lesson{}, invalid(err)
	}
	if _, err := deps.Modules.GetByID(ctx, l.ModuleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lesson.Lesson{}, ErrNotFound
		}
		return lesson.Lesson{}, err
	}
	if err := deps.Lessons.Insert(ctx, l); err != nil {
		return lesson.Lesson{}, err
	}
	slog.Info("lesson_event", "event", "lesson_created", "lesson_id", l.ID, "module_id", l.ModuleID, "by", input.Actor.ID)
	return l, nil
}

// ExecuteUpdateLesson replaces a lesson's editable fields. The parent module is unchanged.
// PRE: Actor is an administrator; LessonID names an existing lesson
// POST: Lesson updated; blank optional fields are cleared
func ExecuteUpdateLesson(ctx context.Context, input UpdateLessonInput, deps LessonDeps) (lesson.Lesson, error) {
	if err := authorizeAdmin(ctx, input.Actor, deps.Profiles, "update_lesson"); err != nil {
		return lesson.Lesson{}, err
	}
	id := strings.TrimSpace(input.LessonID)
	if id == "" {
		return lesson.Lesson{}, invalidf("lesson id is required")
	}
	l := lesson.Lesson{ID: id}
	if err := input.LessonFields.apply(&l); err != nil {
		return lesson.Lesson{}, err
	}

	existing, err := deps.Lessons.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return lesson.Lesson{}, ErrNotFound
	}
	if err != nil {
		return lesson.Lesson{}, err
	}
	l.ModuleID = existing.ModuleID
	l.CreatedAt = existing.CreatedAt
	if err := deps.Lessons.Update(ctx, l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lesson.Lesson{}, ErrNotFound
		}
		return lesson.Lesson{}, err
	}
	slog.Info("lesson_event", "event", "lesson_updated", "lesson_id", id, "by", input.Actor.ID)
	return l, nil
}
