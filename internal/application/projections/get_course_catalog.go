package projections

import (
	"context"

	"github.com/Lautaro124/curso/internal/domain/course"
	"github.com/Lautaro124/curso/internal/domain/lesson"
	"github.com/Lautaro124/curso/internal/domain/module"
)

// GetCourseCatalogDeps holds dependencies for the admin catalog projection.
type GetCourseCatalogDeps struct {
	Courses CourseReader
	Modules ModuleReader
	Lessons LessonReader
}

// CatalogCourse is a course with its full module and lesson tree.
type CatalogCourse struct {
	Course  course.Course
	Modules []CatalogModule
}

// CatalogModule is a module with its lessons in presentation order.
type CatalogModule struct {
	Module  module.Module
	Lessons []lesson.Lesson
}

// QueryGetCourseCatalog assembles every course, module and lesson for the management list.
// PRE: deps are valid and non-nil
// POST: courses newest first; modules and lessons in creation order
func QueryGetCourseCatalog(ctx context.Context, deps GetCourseCatalogDeps) ([]CatalogCourse, error) {
	courses, err := deps.Courses.List(ctx)
	if err != nil {
		return nil, err
	}
	modules, err := deps.Modules.List(ctx)
	if err != nil {
		return nil, err
	}
	lessons, err := deps.Lessons.List(ctx)
	if err != nil {
		return nil, err
	}

	byModule := make(map[string][]lesson.Lesson)
	for _, l := range lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
	}
	byCourse := modulesByCourse(modules)

	result := make([]CatalogCourse, 0, len(courses))
	for _, c := range courses {
		cc := CatalogCourse{Course: c}
		for _, m := range byCourse[c.ID] {
			cc.Modules = append(cc.Modules, CatalogModule{Module: m, Lessons: byModule[m.ID]})
		}
		result = append(result, cc)
	}
	return result, nil
}
