// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/oblog-go/internal/form"
	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/session"
)

// User-facing messages of the auth pages.
const (
	msgEmailTaken     = "You've already signed up with that email, log in instead!"
	msgBadCredentials = "Password incorrect, please try again."
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	users    *service.UserService
	identity *session.Identity
	renderer *render.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *service.UserService, identity *session.Identity, renderer *render.Renderer) *AuthHandler {
	return &AuthHandler{
		users:    users,
		identity: identity,
		renderer: renderer,
	}
}

// RegisterForm renders the sign-up page. Logged-in users go to the front page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	data := render.TemplateData{Title: "Register"}
	// Unknown codes are ignored.
	if msg, ok := registerErrorMessages[r.URL.Query().Get("error")]; ok {
		data.Message = msg
	}
	renderPage(w, r, h.renderer, http.StatusOK, tmplRegister, data)
}

// Register handles the sign-up form submission.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := form.Parse(w, r); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	f := form.DecodeRegister(r)
	// Never echo the password back.
	echo := form.Register{Name: f.Name, Email: f.Email}

	if errs := f.Validate(); errs != nil {
		renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, tmplRegister, render.TemplateData{
			Title:  "Register",
			Form:   echo,
			Errors: errs,
		})
		return
	}

	user, err := h.users.Register(r.Context(), f.Name, f.Email, f.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			renderPage(w, r, h.renderer, http.StatusConflict, tmplRegister, render.TemplateData{
				Title:   "Register",
				Form:    echo,
				Message: msgEmailTaken,
			})
			return
		}
		logAndInternalError(w, r, "registering user", "error", err)
		return
	}

	if _, err := h.identity.Start(r.Context(), user); err != nil {
		logAndInternalError(w, r, "starting session", "error", err, "user_id", user.ID)
		return
	}

	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome, "+user.Name+"!")
}

// LoginForm renders the login page. Logged-in users go to the front page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, tmplLogin, render.TemplateData{Title: "Log In"})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := form.Parse(w, r); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	f := form.DecodeLogin(r)
	echo := form.Login{Email: f.Email}

	if errs := f.Validate(); errs != nil {
		renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, tmplLogin, render.TemplateData{
			Title:  "Log In",
			Form:   echo,
			Errors: errs,
		})
		return
	}

	user, err := h.users.Verify(r.Context(), f.Email, f.Password)
	switch {
	case errors.Is(err, service.ErrNoSuchUser):
		slog.DebugContext(r.Context(), "login attempt for unknown email")
		http.Redirect(w, r, redirectRegister+"?error="+errorNoSuchUser, http.StatusSeeOther)
		return
	case errors.Is(err, service.ErrBadCredentials):
		slog.InfoContext(r.Context(), "login failed: bad credentials")
		renderPage(w, r, h.renderer, http.StatusUnauthorized, tmplLogin, render.TemplateData{
			Title:   "Log In",
			Form:    echo,
			Message: msgBadCredentials,
		})
		return
	case err != nil:
		logAndInternalError(w, r, "verifying credentials", "error", err)
		return
	}

	if _, err := h.identity.Start(r.Context(), user); err != nil {
		logAndInternalError(w, r, "starting session", "error", err, "user_id", user.ID)
		return
	}

	slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID)
	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome back, "+user.Name+"!")
}

// Logout ends the session and returns to the front page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if err := h.identity.End(r.Context()); err != nil {
		logAndInternalError(w, r, "ending session", "error", err)
		return
	}
	slog.InfoContext(r.Context(), "user logged out", "user_id", userID)
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}
