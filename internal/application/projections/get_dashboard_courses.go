package projections

import (
	"context"

	"github.com/Lautaro124/curso/internal/domain/access"
)

// GetDashboardCoursesQuery carries input for the dashboard projection.
type GetDashboardCoursesQuery struct {
	UserID string
}

// GetDashboardCoursesDeps holds dependencies for the dashboard projection.
type GetDashboardCoursesDeps struct {
	Courses CourseReader
	Modules ModuleReader
	Grants  GrantReader
}

// DashboardCourse is a course with its modules split by the viewer's access.
type DashboardCourse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	PreviewImage string          `json:"preview_image,omitempty"`
	Enabled      []ModuleSummary `json:"enabled"`
	Disabled     []ModuleSummary `json:"disabled"`
}

// QueryGetDashboardCourses lists every course, newest first, with modules partitioned by grant.
// PRE: UserID is non-empty
// POST: every module appears in exactly one of Enabled or Disabled; both lists are non-nil
func QueryGetDashboardCourses(ctx context.Context, query GetDashboardCoursesQuery, deps GetDashboardCoursesDeps) ([]DashboardCourse, error) {
	courses, err := deps.Courses.List(ctx)
	if err != nil {
		return nil, err
	}
	modules, err := deps.Modules.List(ctx)
	if err != nil {
		return nil, err
	}
	granted, err := deps.Grants.ListModuleIDs(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	grants := access.NewSet(granted)
	byCourse := modulesByCourse(modules)

	result := make([]DashboardCourse, 0, len(courses))
	for _, c := range courses {
		dc := DashboardCourse{
			ID:           c.ID,
			Name:         c.Name,
			PreviewImage: c.PreviewImage,
			Enabled:      []ModuleSummary{},
			Disabled:     []ModuleSummary{},
		}
		for _, m := range byCourse[c.ID] {
			if grants.Has(m.ID) {
				dc.Enabled = append(dc.Enabled, summarize(m))
			} else {
				dc.Disabled = append(dc.Disabled, summarize(m))
			}
		}
		result = append(result, dc)
	}
	return result, nil
}
