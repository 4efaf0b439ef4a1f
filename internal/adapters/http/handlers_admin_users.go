package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/Lautaro124/curso/internal/application/listutil"
	"github.com/Lautaro124/curso/internal/application/orchestrators"
	"github.com/Lautaro124/curso/internal/application/projections"
	"github.com/Lautaro124/curso/internal/domain/audit"
)

// handleAdminUsersPage handles GET /admin/users
func handleAdminUsersPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdminPage(w, r); !ok {
		return
	}
	params := listutil.ParseListParams(r.URL.Query(), projections.UserSortColumns)
	list, err := projections.QueryListUsers(r.Context(), projections.ListUsersQuery{ListParams: params},
		projections.ListUsersDeps{Profiles: stores.AccountStore})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_users.html", map[string]any{
		"List": list,
	})
}

// handleAdminUserModulesPage handles GET /admin/users/{userId}/modules
func handleAdminUserModulesPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdminPage(w, r); !ok {
		return
	}
	view, err := projections.QueryGetUserModules(r.Context(),
		projections.GetUserModulesQuery{UserID: r.PathValue("userId")},
		projections.GetUserModulesDeps{
			Profiles: stores.AccountStore,
			Courses:  stores.CourseStore,
			Modules:  stores.ModuleStore,
			Grants:   stores.AccessStore,
		},
	)
	if errors.Is(err, projections.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_user_modules.html", map[string]any{
		"View":    view,
		"History": recentAccessChanges(r, view.User.ID),
	})
}

// handleUserActions handles POST /admin/users/actions (action=enable|disable)
func handleUserActions(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireAdminAction(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.ModuleAccessInput{
		Actor:    actor,
		UserID:   r.FormValue("userId"),
		ModuleID: r.FormValue("moduleId"),
	}
	deps := orchestrators.ModuleAccessDeps{
		Profiles:   stores.AccountStore,
		Grants:     stores.AccessStore,
		GenerateID: generateID,
		Now:        timeNow,
	}

	var err error
	var auditAction audit.Action
	switch r.FormValue("action") {
	case "enable":
		err = orchestrators.ExecuteEnableModule(r.Context(), input, deps)
		auditAction = audit.ActionGrant
	case "disable":
		err = orchestrators.ExecuteDisableModule(r.Context(), input, deps)
		auditAction = audit.ActionRevoke
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if auditAction != "" {
		recordAudit(r, audit.NewEvent(actor.ID, audit.CategoryAccess, auditAction).
			WithResource(audit.ResourceModule, strings.TrimSpace(input.ModuleID)).
			WithSubject(strings.TrimSpace(input.UserID)))
	}

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/users/"+url.PathEscape(userID)+"/modules", http.StatusSeeOther)
}
