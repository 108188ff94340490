// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/oblog-go/internal/seo"
	"github.com/olegiv/oblog-go/internal/service"
)

// SEOHandler serves robots.txt and the XML sitemap.
type SEOHandler struct {
	posts       *service.PostService
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates a new SEOHandler. An empty siteURL makes every
// absolute URL derive from the request host. disallowAll hides the whole
// site from crawlers.
func NewSEOHandler(posts *service.PostService, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{posts: posts, siteURL: siteURL, disallowAll: disallowAll}
}

// Robots serves robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	body := seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.disallowAll,
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(body))
}

// Sitemap serves sitemap.xml listing the home page, the static pages and every post.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	builder := seo.NewSitemapBuilder(h.baseURL(r))
	builder.AddHomepage()
	builder.AddStatic(RouteAbout)
	builder.AddStatic(RouteContact)

	for post, err := range h.posts.All(r.Context()) {
		if err != nil {
			logAndInternalError(w, r, "building sitemap", "error", err)
			return
		}
		builder.AddPost(seo.SitemapPost{ID: post.ID, UpdatedAt: post.UpdatedAt})
	}

	out, err := builder.Build()
	if err != nil {
		logAndInternalError(w, r, "encoding sitemap", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
