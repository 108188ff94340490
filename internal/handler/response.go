// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/service"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) so the browser follows with a GET.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, r *http.Request, message string, statusCode int, logMsg string, args ...any) {
	slog.ErrorContext(r.Context(), logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, r *http.Request, logMsg string, args ...any) {
	logAndHTTPError(w, r, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError, logMsg, args...)
}

// renderPage renders a template and turns a rendering failure into a 500.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, r, "rendering page", "template", name, "error", err)
	}
}

// NotFound renders the 404 page.
func NotFound(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderNotFound(w, r, renderer)
	}
}

func renderNotFound(w http.ResponseWriter, r *http.Request, renderer *render.Renderer) {
	renderPage(w, r, renderer, http.StatusNotFound, tmplNotFound, render.TemplateData{Title: "Not Found"})
}

// errInvalidID is returned by parseID for ids that are not positive integers.
var errInvalidID = errors.New("invalid id")

// parseID reads the {id} URL parameter.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// requireID parses the {id} URL parameter and renders the 404 page for ids
// that can never exist. It returns false when a response was written.
func requireID(w http.ResponseWriter, r *http.Request, renderer *render.Renderer) (int64, bool) {
	id, err := parseID(r)
	if err != nil {
		renderNotFound(w, r, renderer)
		return 0, false
	}
	return id, true
}

// handleServiceError answers not-found errors with the 404 page and
// everything else with a logged 500. Callers handle the errors they can
// recover from before falling back to it.
func handleServiceError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, action string, err error) {
	if errors.Is(err, service.ErrNotFound) {
		renderNotFound(w, r, renderer)
		return
	}
	logAndInternalError(w, r, action, "error", err)
}

func postURL(id int64) string {
	return fmt.Sprintf(redirectPostID, id)
}

func postCommentsURL(id int64) string {
	return fmt.Sprintf(redirectPostIDComments, id)
}
