// Package render executes the HTML templates of the site.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog-go/internal/form"
	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/store"
)

// Session keys used for flash messages.
const (
	keyFlash     = "flash"
	keyFlashType = "flash_type"
)

// Flash types understood by the templates.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
)

// Directories holding page templates. Each page is parsed together with
// the base layout and every partial.
var pageDirs = []string{"pages", "auth", "admin"}

const baseLayout = "layouts/base.html"

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	siteName       string
	now            func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	SiteName       string
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		siteName:       cfg.SiteName,
		now:            time.Now,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses all templates from the filesystem.
// Pages under "pages" are registered by file name ("index"), the others
// with their directory as prefix ("auth/login").
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for _, dir := range pageDirs {
		pages, err := templateFiles(templatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}

		for _, tmplPath := range pages {
			name := strings.TrimSuffix(path.Base(tmplPath), ".html")
			if dir != "pages" {
				name = dir + "/" + name
			}

			files := []string{baseLayout}
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	if len(r.templates) == 0 {
		return errors.New("no page templates found")
	}
	return nil
}

// templateFiles returns all .html files in a directory. A missing directory
// yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// TemplateFuncs returns custom template functions.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("January 02, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"truncate": truncate,
		// Post bodies are sanitized on write; sanitizing again here covers
		// rows written before the policy changed.
		"sanitized": func(s string) template.HTML {
			return template.HTML(service.SanitizeHTML(s))
		},
		"isAdmin": func(u *store.User) bool {
			return u != nil && model.IsAdmin(u.Role)
		},
		"fieldError": func(errs form.Errors, field string) string {
			return errs.Get(field)
		},
	}
}

// truncate shortens s to at most length runes, adding an ellipsis.
func truncate(s string, length int) string {
	if length <= 0 || utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return string(runes[:length]) + "..."
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Form        any
	Errors      form.Errors
	Message     string
	Flash       string
	FlashType   string
	CurrentYear int
	SiteName    string
	User        *store.User
	IsAdmin     bool
}

// RenderStatus renders a page with the given status code. Nothing is
// written when execution fails, so the caller can still answer with 500.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = r.now().Year()
	data.SiteName = r.siteName
	if user := middleware.GetUser(req); user != nil {
		data.User = user
		data.IsAdmin = model.IsAdmin(user.Role)
	}

	if r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), keyFlash); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), keyFlashType)
			if data.FlashType == "" {
				data.FlashType = FlashInfo
			}
		}
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("writing response", "template", name, "error", err)
	}
	return nil
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), keyFlash, message)
		r.sessionManager.Put(req.Context(), keyFlashType, flashType)
	}
}
