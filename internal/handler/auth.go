// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"trafficwatch/internal/auth"
	"trafficwatch/internal/model"
	"trafficwatch/internal/render"
	"trafficwatch/internal/session"
	"trafficwatch/internal/store"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	users          store.UserStore
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	serviceAccount *auth.ServiceAccount
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users store.UserStore, renderer *render.Renderer, sm *scs.SessionManager, svc *auth.ServiceAccount) *AuthHandler {
	return &AuthHandler{
		users:          users,
		renderer:       renderer,
		sessionManager: sm,
		serviceAccount: svc,
	}
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}

	if err := h.renderer.Render(w, r, "auth/register", render.TemplateData{Title: "Register"}); err != nil {
		logAndInternalError(w, "failed to render register page", "error", err)
	}
}

// Register creates a new user account from the registration form.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteRegister, "Email and password are required")
		return
	}

	// Check-then-insert: a concurrent registration with the same email can
	// slip through; the unique index on email is the real guard.
	existing, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("registration lookup failed", "email", email, "error", err)
		flashError(w, r, h.renderer, RouteRegister, "Registration failed, please try again")
		return
	}
	if existing != nil {
		flashError(w, r, h.renderer, RouteRegister, "An account with that email already exists")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		flashError(w, r, h.renderer, RouteRegister, "Registration failed, please try again")
		return
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		slog.Error("registration insert failed", "email", email, "error", err)
		flashError(w, r, h.renderer, RouteRegister, "Registration failed, please try again")
		return
	}

	slog.Info("user registered", "email", email)
	flashSuccess(w, r, h.renderer, RouteLogin, "Registration successful, please log in")
}

// LoginForm renders the login page.
// Already-authenticated users are redirected to their home.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}

	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{Title: "Log In"}); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login authenticates a user and establishes a session.
// The service account is checked before the user collection, so the
// dashboard stays reachable even when the database holds no users.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if h.serviceAccount.Matches(email, password) {
		if err := h.startSession(r, nil, email); err != nil {
			slog.Error("service account session failed", "error", err)
			flashError(w, r, h.renderer, RouteLogin, "Login failed, please try again")
			return
		}
		slog.Info("service account logged in")
		http.Redirect(w, r, RouteAdminHome, http.StatusSeeOther)
		return
	}

	user, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("login lookup failed", "email", email, "error", err)
		flashError(w, r, h.renderer, RouteLogin, "Login failed, please try again")
		return
	}
	if user == nil {
		slog.Warn("login failed: unknown account", "email", email)
		flashError(w, r, h.renderer, RouteLogin, "User account doesn't exist")
		return
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check failed", "email", email, "error", err)
		flashError(w, r, h.renderer, RouteLogin, "Login failed, please try again")
		return
	}
	if !ok {
		slog.Warn("login failed: wrong password", "email", email)
		flashError(w, r, h.renderer, RouteLogin, "Wrong password")
		return
	}

	if err := h.startSession(r, user, user.Email); err != nil {
		slog.Error("session start failed", "email", email, "error", err)
		flashError(w, r, h.renderer, RouteLogin, "Login failed, please try again")
		return
	}

	slog.Info("user logged in", "email", email)
	if user.IsAdmin() {
		http.Redirect(w, r, RouteAdminHome, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, RouteHomepage, http.StatusSeeOther)
}

// Logout destroys the session and returns to the landing page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	http.Redirect(w, r, RouteLanding, http.StatusSeeOther)
}

// startSession renews the session token and stores the user reference.
// A nil user means the service account, which keeps an empty user_id.
func (h *AuthHandler) startSession(r *http.Request, user *model.User, email string) error {
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		return err
	}

	ctx := r.Context()
	h.sessionManager.Put(ctx, session.KeyUserEmail, email)
	if user == nil {
		h.sessionManager.Put(ctx, session.KeyUserID, "")
		h.sessionManager.Put(ctx, session.KeyRole, model.RoleAdmin)
		h.sessionManager.Put(ctx, session.KeyUserName, "Administrator")
		return nil
	}

	h.sessionManager.Put(ctx, session.KeyUserID, user.ID.Hex())
	h.sessionManager.Put(ctx, session.KeyRole, user.Role)
	h.sessionManager.Put(ctx, session.KeyUserName, user.Name)
	return nil
}

// redirectAuthenticated sends logged-in visitors to their home page.
// Returns true when a redirect was written.
func (h *AuthHandler) redirectAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	role := h.sessionManager.GetString(r.Context(), session.KeyRole)
	switch role {
	case model.RoleAdmin:
		http.Redirect(w, r, RouteAdminHome, http.StatusSeeOther)
		return true
	case "":
		return false
	default:
		http.Redirect(w, r, RouteHomepage, http.StatusSeeOther)
		return true
	}
}
