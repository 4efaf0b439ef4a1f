package web

import (
	"database/sql"
	"errors"
	"net/http"
	"net/url"

	"github.com/Lautaro124/curso/internal/application/orchestrators"
	"github.com/Lautaro124/curso/internal/application/projections"
	"github.com/Lautaro124/curso/internal/domain/audit"
	"github.com/Lautaro124/curso/internal/domain/course"
	"github.com/Lautaro124/curso/internal/domain/lesson"
	"github.com/Lautaro124/curso/internal/domain/module"
)

func courseDeps() orchestrators.CourseDeps {
	return orchestrators.CourseDeps{
		Profiles:   stores.AccountStore,
		Courses:    stores.CourseStore,
		Elevated:   stores.ElevatedCourseStore,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

func moduleDeps() orchestrators.ModuleDeps {
	return orchestrators.ModuleDeps{
		Profiles:   stores.AccountStore,
		Courses:    stores.CourseStore,
		Modules:    stores.ModuleStore,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

func lessonDeps() orchestrators.LessonDeps {
	return orchestrators.LessonDeps{
		Profiles:   stores.AccountStore,
		Modules:    stores.ModuleStore,
		Lessons:    stores.LessonStore,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

// lookupFailed writes 404 for a missing row or 500 for anything else.
// Returns true when the caller should stop.
func lookupFailed(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return true
	}
	internalError(w, err)
	return true
}

// handleAdminCoursesPage handles GET /admin/courses
func handleAdminCoursesPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdminPage(w, r); !ok {
		return
	}
	catalog, err := projections.QueryGetCourseCatalog(r.Context(), projections.GetCourseCatalogDeps{
		Courses: stores.CourseStore,
		Modules: stores.ModuleStore,
		Lessons: stores.LessonStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_courses.html", map[string]any{
		"Catalog": catalog,
	})
}

// handleNewCoursePage handles GET /admin/courses/new
func handleNewCoursePage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdminPage(w, r); !ok {
		return
	}
	renderTemplate(w, r, "course_form.html", map[string]any{
		"IsNew":  true,
		"Course": course.Course{},
	})
}

// handleEditCoursePage handles GET /admin/courses/{courseId}/edit
func handleEditCoursePage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdminPage(w, r); !ok {
		return
	}
	c, err := stores.CourseStore.GetByID(r.Context(), r.PathValue("courseId"))
	if lookupFailed(w, r, err) {
		return
	}
	renderTemplate(w, r, "course_form.html", map[string]any{
		"IsNew":  false,
		"Course": c,
	})
}

// handleNewModulePage handles GET /admin/courses/{courseId}/modules/new
func handleNewModulePage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdminPage(w, r); !ok {
		return
	}
	c, err := stores.CourseStore.GetByID(r.Context(), r.PathValue("courseId"))
	if lookupFailed(w, r, err) {
		return
	}
	renderTemplate(w, r, "module_form.html", map[string]any{
		"IsNew":  true,
		"Course": c,
		"Module": module.Module{CourseID: c.ID},
	})
}

// handleEditModulePage handles GET /admin/modules/{moduleId}/edit
func handleEditModulePage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdminPage(w, r); !ok {
		return
	}
	m, err := stores.ModuleStore.GetByID(r.Context(), r.PathValue("moduleId"))
	if lookupFailed(w, r, err) {
		return
	}
	c, err := stores.CourseStore.GetByID(r.Context(), m.CourseID)
	if lookupFailed(w, r, err) {
		return
	}
	renderTemplate(w, r, "module_form.html", map[string]any{
		"IsNew":  false,
		"Course": c,
		"Module": m,
	})
}

// handleNewLessonPage handles GET /admin/modules/{moduleId}/lessons/new
func handleNewLessonPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdminPage(w, r); !ok {
		return
	}
	m, err := stores.ModuleStore.GetByID(r.Context(), r.PathValue("moduleId"))
	if lookupFailed(w, r, err) {
		return
	}
	renderTemplate(w, r, "lesson_form.html", map[string]any{
		"IsNew":  true,
		"Module": m,
		"Lesson": lesson.Lesson{ModuleID: m.ID},
	})
}

// handleEditLessonPage handles GET /admin/lessons/{lessonId}/edit
func handleEditLessonPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdminPage(w, r); !ok {
		return
	}
	l, err := stores.LessonStore.GetByID(r.Context(), r.PathValue("lessonId"))
	if lookupFailed(w, r, err) {
		return
	}
	m, err := stores.ModuleStore.GetByID(r.Context(), l.ModuleID)
	if lookupFailed(w, r, err) {
		return
	}
	renderTemplate(w, r, "lesson_form.html", map[string]any{
		"IsNew":  false,
		"Module": m,
		"Lesson": l,
	})
}

// handleCourseActions handles POST /admin/courses/actions (action=create|update)
func handleCourseActions(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireAdminAction(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	switch r.FormValue("action") {
	case "create":
		c, err := orchestrators.ExecuteCreateCourse(r.Context(), orchestrators.CreateCourseInput{
			Actor:        actor,
			Name:         r.FormValue("name"),
			PreviewImage: r.FormValue("preview_image"),
		}, courseDeps())
		if err != nil {
			writeError(w, r, err)
			return
		}
		recordAudit(r, audit.NewEvent(actor.ID, audit.CategoryContent, audit.ActionCreate).
			WithResource(audit.ResourceCourse, c.ID).WithDescription("created course "+c.Name))
		http.Redirect(w, r, "/admin/courses/"+url.PathEscape(c.ID)+"/modules/new", http.StatusSeeOther)
		return
	case "update":
		c, err := orchestrators.ExecuteUpdateCourse(r.Context(), orchestrators.UpdateCourseInput{
			Actor:        actor,
			CourseID:     r.FormValue("courseId"),
			Name:         r.FormValue("name"),
			PreviewImage: r.FormValue("preview_image"),
		}, courseDeps())
		if err != nil {
			writeError(w, r, err)
			return
		}
		recordAudit(r, audit.NewEvent(actor.ID, audit.CategoryContent, audit.ActionUpdate).
			WithResource(audit.ResourceCourse, c.ID).WithDescription("updated course "+c.Name))
	}
	http.Redirect(w, r, "/admin/courses", http.StatusSeeOther)
}

// handleModuleActions handles POST /admin/modules/actions (action=create|update)
func handleModuleActions(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireAdminAction(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	switch r.FormValue("action") {
	case "create":
		m, err := orchestrators.ExecuteCreateModule(r.Context(), orchestrators.CreateModuleInput{
			Actor:    actor,
			CourseID: r.FormValue("course_id"),
			Name:     r.FormValue("name"),
			IsPaid:   r.FormValue("is_paid"),
		}, moduleDeps())
		if err != nil {
			writeError(w, r, err)
			return
		}
		recordAudit(r, audit.NewEvent(actor.ID, audit.CategoryContent, audit.ActionCreate).
			WithResource(audit.ResourceModule, m.ID).WithDescription("created module "+m.Name))
		http.Redirect(w, r, "/admin/modules/"+url.PathEscape(m.ID)+"/lessons/new", http.StatusSeeOther)
		return
	case "update":
		m, err := orchestrators.ExecuteUpdateModule(r.Context(), orchestrators.UpdateModuleInput{
			Actor:    actor,
			ModuleID: r.FormValue("moduleId"),
			Name:     r.FormValue("name"),
			IsPaid:   r.FormValue("is_paid"),
		}, moduleDeps())
		if err != nil {
			writeError(w, r, err)
			return
		}
		recordAudit(r, audit.NewEvent(actor.ID, audit.CategoryContent, audit.ActionUpdate).
			WithResource(audit.ResourceModule, m.ID).WithDescription("updated module "+m.Name))
	}
	http.Redirect(w, r, "/admin/courses", http.StatusSeeOther)
}

// handleLessonActions handles POST /admin/lessons/actions (action=create|update)
func handleLessonActions(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireAdminAction(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	fields := orchestrators.LessonFields{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		VideoURL:    r.FormValue("video_url"),
		Attachments: r.FormValue("attachments"),
		QA:          r.FormValue("qa"),
	}

	var (
		l      lesson.Lesson
		err    error
		action audit.Action
		verb   string
	)
	switch r.FormValue("action") {
	case "create":
		action, verb = audit.ActionCreate, "created"
		l, err = orchestrators.ExecuteCreateLesson(r.Context(), orchestrators.CreateLessonInput{
			Actor:        actor,
			ModuleID:     r.FormValue("module_id"),
			LessonFields: fields,
		}, lessonDeps())
	case "update":
		action, verb = audit.ActionUpdate, "updated"
		l, err = orchestrators.ExecuteUpdateLesson(r.Context(), orchestrators.UpdateLessonInput{
			Actor:        actor,
			LessonID:     r.FormValue("lessonId"),
			LessonFields: fields,
		}, lessonDeps())
	default:
		http.Error(w, "invalid action", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	recordAudit(r, audit.NewEvent(actor.ID, audit.CategoryContent, action).
		WithResource(audit.ResourceLesson, l.ID).WithDescription(verb+" lesson "+l.Name))
	http.Redirect(w, r, "/admin/courses", http.StatusSeeOther)
}
