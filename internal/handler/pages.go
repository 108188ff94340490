package handler

import (
	"net/http"

	"github.com/olegiv/oblog-go/internal/render"
)

// PagesHandler serves the static content pages.
type PagesHandler struct {
	renderer *render.Renderer
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(renderer *render.Renderer) *PagesHandler {
	return &PagesHandler{renderer: renderer}
}

// About renders the about page.
func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, tmplAbout, render.TemplateData{Title: "About"})
}

// Contact renders the contact page.
func (h *PagesHandler) Contact(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, tmplContact, render.TemplateData{Title: "Contact"})
}
