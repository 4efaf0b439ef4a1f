package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Lautaro124/curso/internal/adapters/http/middleware"
	"github.com/Lautaro124/curso/internal/application/orchestrators"
)

// handleRoot sends visitors to the page for their role.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	actor, ok := sessionActor(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, homePath(r.Context(), actor), http.StatusSeeOther)
}

// handleLogin handles GET (form) and POST (sign in) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if actor, ok := sessionActor(r); ok {
			http.Redirect(w, r, homePath(r.Context(), actor), http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"Email": "",
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}
		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			if !errors.Is(err, orchestrators.ErrInvalidCredentials) && !errors.Is(err, orchestrators.ErrAccountLocked) {
				internalError(w, err)
				return
			}
			renderTemplateStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{
				"Email": input.Email,
				"Error": err.Error(),
			})
			return
		}

		if !startSession(w, r, result.AccountID, result.Email, result.Metadata) {
			return
		}
		actor := orchestrators.Actor{ID: result.AccountID, Metadata: result.Metadata}
		http.Redirect(w, r, homePath(r.Context(), actor), http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleRegister handles GET (form) and POST (sign up) for /register
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if actor, ok := sessionActor(r); ok {
			http.Redirect(w, r, homePath(r.Context(), actor), http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "register.html", map[string]any{})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.CreateAccountInput{
			Email:      strings.TrimSpace(r.FormValue("email")),
			Password:   r.FormValue("password"),
			FullName:   r.FormValue("full_name"),
			Occupation: r.FormValue("occupation"),
			BirthDate:  r.FormValue("birth_date"),
			Phone:      r.FormValue("phone"),
		}
		deps := orchestrators.RegisterDeps{
			CreateAccountDeps: orchestrators.CreateAccountDeps{
				AccountStore: stores.AccountStore,
				GenerateID:   generateID,
				Now:          timeNow,
			},
			Mailer:  mailer,
			SiteURL: siteURL,
		}

		acct, err := orchestrators.ExecuteRegister(r.Context(), input, deps)
		if err != nil {
			if !orchestrators.IsValidation(err) {
				internalError(w, err)
				return
			}
			renderTemplateStatus(w, r, http.StatusBadRequest, "register.html", map[string]any{
				"Form":  input,
				"Error": err.Error(),
			})
			return
		}

		if !startSession(w, r, acct.ID, acct.Email, acct.Metadata) {
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleSignOut handles POST /auth/signout
func handleSignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := sessions.Delete(r.Context(), cookie.Value); err != nil {
			slog.Warn("auth_event", "event", "signout_delete_failed", "error", err)
		}
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "signed_out", "account_id", sess.AccountID)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// startSession creates a session and sets its cookie. It writes the error response itself.
func startSession(w http.ResponseWriter, r *http.Request, accountID, email string, metadata map[string]any) bool {
	token, err := sessions.Create(r.Context(), middleware.Session{
		AccountID: accountID,
		Email:     email,
		Metadata:  metadata,
		CreatedAt: timeNow(),
	})
	if err != nil {
		internalError(w, err)
		return false
	}
	middleware.SetSessionCookie(w, token)
	return true
}
