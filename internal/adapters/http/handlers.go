package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/Lautaro124/curso/internal/adapters/http/middleware"
	"github.com/Lautaro124/curso/internal/application/orchestrators"
	"github.com/Lautaro124/curso/internal/application/projections"
	"github.com/Lautaro124/curso/internal/domain/video"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

//go:embed templates/*.html
var templateFS embed.FS

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("internal_error", "error", err.Error())
	}
}

// sessionActor returns the signed-in user as an orchestrator actor.
func sessionActor(r *http.Request) (orchestrators.Actor, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok || sess.AccountID == "" {
		return orchestrators.Actor{}, false
	}
	return orchestrators.Actor{ID: sess.AccountID, Metadata: sess.Metadata}, true
}

// actorIsAdmin resolves the admin role for the actor's own user.
func actorIsAdmin(ctx context.Context, actor orchestrators.Actor) bool {
	return orchestrators.ExecuteResolveAdmin(ctx,
		orchestrators.ResolveAdminInput{UserID: actor.ID, Session: actor},
		orchestrators.ResolveAdminDeps{Profiles: stores.AccountStore},
	)
}

// homePath is where a signed-in user lands: admins manage users, everyone else studies.
func homePath(ctx context.Context, actor orchestrators.Actor) string {
	if actorIsAdmin(ctx, actor) {
		return "/admin/users"
	}
	return "/dashboard"
}

// requireAdmin gates JSON endpoints: 401 without a session, 403 for non-admins.
func requireAdmin(w http.ResponseWriter, r *http.Request) (orchestrators.Actor, bool) {
	actor, ok := sessionActor(r)
	if !ok {
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return orchestrators.Actor{}, false
	}
	if !actorIsAdmin(r.Context(), actor) {
		slog.Warn("auth_denied", "path", r.URL.Path, "account_id", actor.ID, "required", "admin")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return orchestrators.Actor{}, false
	}
	return actor, true
}

// requireAdminPage gates admin pages: anonymous users sign in, students go back to their dashboard.
func requireAdminPage(w http.ResponseWriter, r *http.Request) (orchestrators.Actor, bool) {
	actor, ok := sessionActor(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return orchestrators.Actor{}, false
	}
	if !actorIsAdmin(r.Context(), actor) {
		slog.Warn("auth_denied", "path", r.URL.Path, "account_id", actor.ID, "required", "admin")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return orchestrators.Actor{}, false
	}
	return actor, true
}

// requireAdminAction gates form posts: anonymous users sign in, non-admins get 403.
func requireAdminAction(w http.ResponseWriter, r *http.Request) (orchestrators.Actor, bool) {
	actor, ok := sessionActor(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return orchestrators.Actor{}, false
	}
	if !actorIsAdmin(r.Context(), actor) {
		slog.Warn("auth_denied", "path", r.URL.Path, "account_id", actor.ID, "required", "admin")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return orchestrators.Actor{}, false
	}
	return actor, true
}

// writeError maps an orchestrator outcome onto the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *orchestrators.ValidationError
	switch {
	case errors.Is(err, orchestrators.ErrNotAuthenticated):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, orchestrators.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.As(err, &ve):
		http.Error(w, ve.Message, http.StatusBadRequest)
	case errors.Is(err, orchestrators.ErrNotFound), errors.Is(err, projections.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		internalError(w, err)
	}
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	admin := false
	if actor, ok := sessionActor(r); ok {
		admin = actorIsAdmin(r.Context(), actor)
	}

	funcMap := template.FuncMap{
		"currentEmail":   func() string { return sess.Email },
		"isLoggedIn":     func() bool { return loggedIn },
		"isAdmin":        func() bool { return admin },
		"csrfToken":      func() string { return csrf.Token(r) },
		"renderMarkdown": renderMarkdown,
		"videoEmbed":     video.Resolve,
		"toJSON": func(v any) string {
			b, err := json.Marshal(v)
			if err != nil {
				return ""
			}
			return string(b)
		},
		"add": func(a, b int) int { return a + b },
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
