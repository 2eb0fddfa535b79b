// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"trafficwatch/internal/model"
	"trafficwatch/internal/session"
	"trafficwatch/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the authenticated user loaded by LoadUser.
const ContextKeyUser ContextKey = "user"

// RequireAuth creates middleware that requires an authenticated session.
// Unauthenticated requests are flashed and redirected to the login page.
func RequireAuth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isAuthenticated(sm, r) {
				sm.Put(r.Context(), "flash", "Please log in first")
				sm.Put(r.Context(), "flash_type", "error")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that requires the admin role. Anyone
// else is flashed and bounced to the login view, which sends
// already-authenticated users home with the flash intact.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := sm.GetString(r.Context(), session.KeyRole)
			if role != model.RoleAdmin {
				slog.Warn("admin area access denied",
					"role", role,
					"path", r.URL.Path,
				)
				sm.Put(r.Context(), "flash", "You are not authorized to view that page")
				sm.Put(r.Context(), "flash_type", "error")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser creates middleware that resolves the session reference into a
// full user record and stores it in the request context. The service
// account has no stored record and is synthesized from the session itself.
// A session pointing at a deleted user is destroyed and sent to login.
func LoadUser(sm *scs.SessionManager, users store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isAuthenticated(sm, r) {
				next.ServeHTTP(w, r)
				return
			}

			userID := sm.GetString(r.Context(), session.KeyUserID)
			if userID == "" {
				// Service account session: role without a stored record.
				email := sm.GetString(r.Context(), session.KeyUserEmail)
				user := model.ServiceAccountUser(email)
				next.ServeHTTP(w, r.WithContext(withUser(r.Context(), &user)))
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				slog.Error("failed to load session user", "user_id", userID, "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				// The record behind this session is gone.
				slog.Warn("session references missing user", "user_id", userID)
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// GetUser returns the user loaded into the request context, or nil.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(*model.User)
	if !ok {
		return nil
	}
	return user
}

func withUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

func isAuthenticated(sm *scs.SessionManager, r *http.Request) bool {
	return sm.GetString(r.Context(), session.KeyRole) != ""
}
