package projections

import (
	"context"
)

// GetModuleDetailQuery carries input for the module detail projection.
type GetModuleDetailQuery struct {
	ModuleID string
	UserID   string
}

// GetModuleDetailDeps holds dependencies for the module detail projection.
type GetModuleDetailDeps struct {
	Courses CourseReader
	Modules ModuleReader
	Lessons LessonReader
	Grants  GrantReader
}

// ModuleDetail is a granted module with its lessons.
type ModuleDetail struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	IsPaid     bool        `json:"is_paid"`
	CourseID   string      `json:"course_id"`
	CourseName string      `json:"course_name"`
	Lessons    []LessonRef `json:"lessons"`
}

// QueryGetModuleDetail returns a module the viewer holds a grant for.
// PRE: ModuleID and UserID are non-empty
// POST: ErrNotFound when the module is absent or not granted; administrators get no bypass
func QueryGetModuleDetail(ctx context.Context, query GetModuleDetailQuery, deps GetModuleDetailDeps) (ModuleDetail, error) {
	granted, err := deps.Grants.Exists(ctx, query.UserID, query.ModuleID)
	if err != nil {
		return ModuleDetail{}, err
	}
	if !granted {
		return ModuleDetail{}, ErrNotFound
	}

	m, err := deps.Modules.GetByID(ctx, query.ModuleID)
	if err != nil {
		return ModuleDetail{}, notFound(err)
	}
	c, err := deps.Courses.GetByID(ctx, m.CourseID)
	if err != nil {
		return ModuleDetail{}, notFound(err)
	}
	lessons, err := deps.Lessons.ListByModule(ctx, m.ID)
	if err != nil {
		return ModuleDetail{}, err
	}

	detail := ModuleDetail{
		ID:         m.ID,
		Name:       m.Name,
		IsPaid:     m.IsPaid,
		CourseID:   c.ID,
		CourseName: c.Name,
		Lessons:    make([]LessonRef, 0, len(lessons)),
	}
	for _, l := range lessons {
		detail.Lessons = append(detail.Lessons, LessonRef{ID: l.ID, Name: l.Name})
	}
	return detail, nil
}
