package web

import (
	"errors"
	"net/http"

	"github.com/Lautaro124/curso/internal/application/projections"
)

// handleDashboard handles GET /dashboard
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := sessionActor(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	courses, err := projections.QueryGetDashboardCourses(r.Context(),
		projections.GetDashboardCoursesQuery{UserID: actor.ID},
		projections.GetDashboardCoursesDeps{
			Courses: stores.CourseStore,
			Modules: stores.ModuleStore,
			Grants:  stores.AccessStore,
		},
	)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Courses": courses,
	})
}

// handleModuleDetail handles GET /dashboard/modules/{moduleId}
func handleModuleDetail(w http.ResponseWriter, r *http.Request) {
	actor, ok := sessionActor(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	detail, err := projections.QueryGetModuleDetail(r.Context(),
		projections.GetModuleDetailQuery{ModuleID: r.PathValue("moduleId"), UserID: actor.ID},
		projections.GetModuleDetailDeps{
			Courses: stores.CourseStore,
			Modules: stores.ModuleStore,
			Lessons: stores.LessonStore,
			Grants:  stores.AccessStore,
		},
	)
	if errors.Is(err, projections.ErrNotFound) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "module.html", map[string]any{
		"Module": detail,
	})
}

// handleLessonDetail handles GET /dashboard/lessons/{lessonId}
func handleLessonDetail(w http.ResponseWriter, r *http.Request) {
	actor, ok := sessionActor(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	query := projections.GetLessonDetailQuery{LessonID: r.PathValue("lessonId"), UserID: actor.ID}
	deps := projections.GetLessonDetailDeps{
		Courses: stores.CourseStore,
		Modules: stores.ModuleStore,
		Lessons: stores.LessonStore,
		Grants:  stores.AccessStore,
	}

	detail, err := projections.QueryGetLessonDetail(r.Context(), query, deps)
	if errors.Is(err, projections.ErrNotFound) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	nav := projections.QueryGetLessonNavigation(r.Context(), query, deps)

	renderTemplate(w, r, "lesson.html", map[string]any{
		"Detail": detail,
		"Nav":    nav,
	})
}
