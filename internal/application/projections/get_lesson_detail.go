package projections

import (
	"context"
	"log/slog"

	"github.com/Lautaro124/curso/internal/domain/lesson"
)

// GetLessonDetailQuery carries input for the lesson projections.
type GetLessonDetailQuery struct {
	LessonID string
	UserID   string
}

// GetLessonDetailDeps holds dependencies for the lesson projections.
type GetLessonDetailDeps struct {
	Courses CourseReader
	Modules ModuleReader
	Lessons LessonReader
	Grants  GrantReader
}

// LessonDetail is a granted lesson with breadcrumb names.
type LessonDetail struct {
	Lesson     lesson.Lesson `json:"lesson"`
	ModuleName string        `json:"module_name"`
	CourseID   string        `json:"course_id"`
	CourseName string        `json:"course_name"`
}

// LessonNavigation holds the adjacent lessons; nil at either boundary.
type LessonNavigation struct {
	Previous *LessonRef `json:"previous"`
	Next     *LessonRef `json:"next"`
}

// QueryGetLessonDetail returns a lesson whose module the viewer holds a grant for.
// PRE: LessonID and UserID are non-empty
// POST: ErrNotFound when the lesson is absent or its module is not granted
func QueryGetLessonDetail(ctx context.Context, query GetLessonDetailQuery, deps GetLessonDetailDeps) (LessonDetail, error) {
	l, err := deps.Lessons.GetByID(ctx, query.LessonID)
	if err != nil {
		return LessonDetail{}, notFound(err)
	}
	granted, err := deps.Grants.Exists(ctx, query.UserID, l.ModuleID)
	if err != nil {
		return LessonDetail{}, err
	}
	if !granted {
		return LessonDetail{}, ErrNotFound
	}

	m, err := deps.Modules.GetByID(ctx, l.ModuleID)
	if err != nil {
		return LessonDetail{}, notFound(err)
	}
	c, err := deps.Courses.GetByID(ctx, m.CourseID)
	if err != nil {
		return LessonDetail{}, notFound(err)
	}
	return LessonDetail{
		Lesson:     l,
		ModuleName: m.Name,
		CourseID:   c.ID,
		CourseName: c.Name,
	}, nil
}

// QueryGetLessonNavigation returns the lessons before and after LessonID in its module.
// PRE: LessonID and UserID are non-empty
// POST: both links nil when the lesson is absent, not granted, or cannot be located among its siblings
// INVARIANT: never returns an error
func QueryGetLessonNavigation(ctx context.Context, query GetLessonDetailQuery, deps GetLessonDetailDeps) LessonNavigation {
	l, err := deps.Lessons.GetByID(ctx, query.LessonID)
	if err != nil {
		return LessonNavigation{}
	}
	granted, err := deps.Grants.Exists(ctx, query.UserID, l.ModuleID)
	if err != nil || !granted {
		return LessonNavigation{}
	}
	siblings, err := deps.Lessons.ListByModule(ctx, l.ModuleID)
	if err != nil {
		slog.Warn("lesson_navigation_failed", "lesson_id", l.ID, "error", err)
		return LessonNavigation{}
	}

	pos := -1
	for i, s := range siblings {
		if s.ID == l.ID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return LessonNavigation{}
	}

	var nav LessonNavigation
	if pos > 0 {
		prev := siblings[pos-1]
		nav.Previous = &LessonRef{ID: prev.ID, Name: prev.Name}
	}
	if pos < len(siblings)-1 {
		next := siblings[pos+1]
		nav.Next = &LessonRef{ID: next.ID, Name: next.Name}
	}
	return nav
}
