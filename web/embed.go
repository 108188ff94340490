// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the HTML templates and static assets of the site.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templates embed.FS

//go:embed all:static/dist
var static embed.FS

// TemplateFS returns the templates rooted at the templates directory,
// so pages are addressed as "layouts/base.html" or "pages/index.html".
func TemplateFS() fs.FS {
	return mustSub(templates, "templates")
}

// StaticFS returns the built assets rooted at static/dist, served under
// the /static/dist/ prefix.
func StaticFS() fs.FS {
	return mustSub(static, "static/dist")
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
