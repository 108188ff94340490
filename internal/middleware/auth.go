// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/oblog-go/internal/logging"
	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for user data.
const (
	ContextKeyUser ContextKey = "user"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Access control errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

// RequireAuthenticated passes user through when someone is logged in and
// returns ErrUnauthenticated for an anonymous (nil) user.
func RequireAuthenticated(user *store.User) (*store.User, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// RequireAdmin passes user through when it holds the admin role. Every other
// user, and the anonymous user, gets ErrForbidden.
func RequireAdmin(user *store.User) (*store.User, error) {
	if user == nil || !model.IsAdmin(user.Role) {
		return nil, ErrForbidden
	}
	return user, nil
}

// IdentityResolver resolves the session in a request context to a user.
// A nil user means the visitor is anonymous.
type IdentityResolver interface {
	Resolve(ctx context.Context) (*store.User, error)
}

// LoadUser creates middleware that resolves the session once per request and
// stores the user, if any, in the request context. It must run inside the
// session manager's LoadAndSave.
func LoadUser(identity IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := identity.Resolve(r.Context())
			if err != nil {
				slog.ErrorContext(r.Context(), "resolving session user", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, *user)
			ctx = logging.With(ctx, slog.Int64("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Auth is middleware that requires a logged-in user and redirects anonymous
// visitors to the login page.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := RequireAuthenticated(GetUser(r)); err != nil {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Admin is middleware that requires the admin role. It answers a bare 403
// and is meant to be chained after Auth.
func Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if _, err := RequireAdmin(user); err != nil {
			attrs := []any{
				"status", http.StatusForbidden,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			}
			if user != nil {
				attrs = append(attrs, "user_role", user.Role)
			}
			slog.WarnContext(r.Context(), "access denied", attrs...)

			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// IsAdmin reports whether the current user holds the admin role.
func IsAdmin(r *http.Request) bool {
	_, err := RequireAdmin(GetUser(r))
	return err == nil
}
