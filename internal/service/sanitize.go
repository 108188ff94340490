// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlSanitizer strips scripts, event handlers and other unsafe markup from
// user-supplied HTML while keeping ordinary formatting.
var htmlSanitizer = bluemonday.UGCPolicy()

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// SanitizeHTML returns s with everything outside the UGC policy removed.
func SanitizeHTML(s string) string {
	return htmlSanitizer.Sanitize(s)
}

// RenderMarkdown converts Markdown source to sanitized HTML ready for templates.
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	safe := htmlSanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil //nolint:gosec // sanitized above
}
