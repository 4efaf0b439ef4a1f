package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lautaro124/curso/internal/adapters/storage"
	"github.com/Lautaro124/curso/internal/domain/course"
)

// CourseStore defines the store interface needed by course orchestrators.
type CourseStore interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
	Insert(ctx context.Context, c course.Course) error
	Update(ctx context.Context, c course.Course) error
}

// CourseUpdater is the write path used when the standard store lacks privileges.
type CourseUpdater interface {
	Update(ctx context.Context, c course.Course) error
}

// CourseDeps holds dependencies for course orchestrators.
type CourseDeps struct {
	Profiles   ProfileReader
	Courses    CourseStore
	Elevated   CourseUpdater // optional
	GenerateID func() string
	Now        func() time.Time
}

// CreateCourseInput carries input for CreateCourse.
type CreateCourseInput struct {
	Actor        Actor
	Name         string
	PreviewImage string
}

// UpdateCourseInput carries input for UpdateCourse.
type UpdateCourseInput struct {
	Actor        Actor
	CourseID     string
	Name         string
	PreviewImage string
}

// ExecuteCreateCourse creates a course.
// PRE: Actor is an administrator
// POST: Course persisted with a trimmed name; a blank preview image is stored as NULL
func ExecuteCreateCourse(ctx context.Context, input CreateCourseInput, deps CourseDeps) (course.Course, error) {
	if err := authorizeAdmin(ctx, input.Actor, deps.Profiles, "create_course"); err != nil {
		return course.Course{}, err
	}
	c := course.Course{
		ID:           deps.GenerateID(),
		Name:         input.Name,
		PreviewImage: input.PreviewImage,
		CreatedAt:    deps.Now(),
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return course.Course{}, invalid(err)
	}
	if err := deps.Courses.Insert(ctx, c); err != nil {
		return course.Course{}, err
	}
	slog.Info("course_event", "event", "course_created", "course_id", c.ID, "by", input.Actor.ID)
	return c, nil
}

// ExecuteUpdateCourse edits a course's name and preview image.
// PRE: Actor is an administrator; CourseID names an existing course
// POST: Course updated through the standard store, or once through the
// elevated store when the standard store is denied permission
func ExecuteUpdateCourse(ctx context.Context, input UpdateCourseInput, deps CourseDeps) (course.Course, error) {
	if err := authorizeAdmin(ctx, input.Actor, deps.Profiles, "update_course"); err != nil {
		return course.Course{}, err
	}
	id := strings.TrimSpace(input.CourseID)
	if id == "" {
		return course.Course{}, invalidf("course id is required")
	}
	c := course.Course{ID: id, Name: input.Name, PreviewImage: input.PreviewImage}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return course.Course{}, invalid(err)
	}

	existing, err := deps.Courses.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return course.Course{}, ErrNotFound
	}
	if err != nil {
		return course.Course{}, err
	}
	c.CreatedAt = existing.CreatedAt

	err = deps.Courses.Update(ctx, c)
	if err != nil && storage.IsPermissionDenied(err) && deps.Elevated != nil {
		slog.Warn("course_event", "event", "course_update_elevated", "course_id", id, "error", err)
		err = deps.Elevated.Update(ctx, c)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return course.Course{}, ErrNotFound
	}
	if err != nil {
		return course.Course{}, fmt.Errorf("update course %s: %w", id, err)
	}
	slog.Info("course_event", "event", "course_updated", "course_id", id, "by", input.Actor.ID)
	return c, nil
}
