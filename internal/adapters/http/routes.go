package web

import "net/http"

// registerRoutes binds every page, action and API route.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleRoot)
	mux.HandleFunc("GET /healthz", handleHealthz)

	// Accounts
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/register", handleRegister)
	mux.HandleFunc("POST /auth/signout", handleSignOut)

	// Student dashboard
	mux.HandleFunc("GET /dashboard", handleDashboard)
	mux.HandleFunc("GET /dashboard/modules/{moduleId}", handleModuleDetail)
	mux.HandleFunc("GET /dashboard/lessons/{lessonId}", handleLessonDetail)

	// Admin: users and grants
	mux.HandleFunc("GET /admin/users", handleAdminUsersPage)
	mux.HandleFunc("GET /admin/users/{userId}/modules", handleAdminUserModulesPage)
	mux.HandleFunc("POST /admin/users/actions", handleUserActions)

	// Admin: courses
	mux.HandleFunc("GET /admin/courses", handleAdminCoursesPage)
	mux.HandleFunc("GET /admin/courses/new", handleNewCoursePage)
	mux.HandleFunc("GET /admin/courses/{courseId}/edit", handleEditCoursePage)
	mux.HandleFunc("GET /admin/courses/{courseId}/modules/new", handleNewModulePage)
	mux.HandleFunc("POST /admin/courses/actions", handleCourseActions)

	// Admin: modules
	mux.HandleFunc("GET /admin/modules/{moduleId}/edit", handleEditModulePage)
	mux.HandleFunc("GET /admin/modules/{moduleId}/lessons/new", handleNewLessonPage)
	mux.HandleFunc("POST /admin/modules/actions", handleModuleActions)

	// Admin: lessons
	mux.HandleFunc("GET /admin/lessons/{lessonId}/edit", handleEditLessonPage)
	mux.HandleFunc("POST /admin/lessons/actions", handleLessonActions)

	// Admin: uploads and diagnostics
	mux.HandleFunc("POST /admin/uploads/images", handleUploadImage)
	mux.HandleFunc("POST /admin/uploads/files", handleUploadFiles)
	mux.HandleFunc("GET /admin/perf", handlePerf)
	mux.HandleFunc("GET /admin/audit", handleAdminAuditTrail)
}
