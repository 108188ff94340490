// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package server wires handlers and middleware into the HTTP router.
package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/oblog-go/internal/config"
	"github.com/olegiv/oblog-go/internal/handler"
	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/session"
	"github.com/olegiv/oblog-go/internal/version"
	"github.com/olegiv/oblog-go/web"
)

// staticMaxAge is the Cache-Control max-age of embedded assets (1 year).
const staticMaxAge = 31536000

// Deps holds everything the router is built from.
type Deps struct {
	Config   *config.Config
	DB       *sql.DB
	Logger   *slog.Logger
	Identity *session.Identity
	Renderer *render.Renderer
	Version  version.Info
}

// NewRouter builds the chi router with the full middleware stack and every route.
func NewRouter(d Deps) http.Handler {
	sm := d.Identity.Manager()

	users := service.NewUserService(d.DB)
	posts := service.NewPostService(d.DB)
	comments := service.NewCommentService(d.DB)

	authHandler := handler.NewAuthHandler(users, d.Identity, d.Renderer)
	postsHandler := handler.NewPostsHandler(posts, comments, d.Renderer)
	pagesHandler := handler.NewPagesHandler(d.Renderer)
	healthHandler := handler.NewHealthHandler(d.DB, d.Version)
	seoHandler := handler.NewSEOHandler(posts, d.Config.SiteURL, d.Config.IsDevelopment())

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(d.Config.RequestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.Config.IsDevelopment())))
	r.Use(sm.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(d.Config.SessionSecret),
		d.Config.IsDevelopment(),
		d.Config.ServerAddr(),
	)))
	r.Use(middleware.LoadUser(d.Identity))

	r.NotFound(handler.NotFound(d.Renderer))

	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get(handler.RouteRobots, seoHandler.Robots)
	r.Get(handler.RouteSitemap, seoHandler.Sitemap)

	staticHandler := middleware.StaticCache(staticMaxAge)(
		http.StripPrefix(handler.RouteStatic+"/dist/", http.FileServer(http.FS(web.StaticFS()))),
	)
	r.Handle(handler.RouteStatic+"/dist/*", staticHandler)

	// Public pages
	r.Get(handler.RouteRoot, postsHandler.Home)
	r.Get(handler.RoutePostID, postsHandler.Show)
	r.Get(handler.RouteAbout, pagesHandler.About)
	r.Get(handler.RouteContact, pagesHandler.Contact)
	r.Get(handler.RouteRegister, authHandler.RegisterForm)
	r.Post(handler.RouteRegister, authHandler.Register)
	r.Get(handler.RouteLogin, authHandler.LoginForm)
	r.Post(handler.RouteLogin, authHandler.Login)

	// Any logged-in user
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth)
		r.Get(handler.RouteLogout, authHandler.Logout)
		r.Post(handler.RoutePostID, postsHandler.AddComment)
	})

	// Content management: login first, then the admin role
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth, middleware.Admin)
		r.Get(handler.RouteNewPost, postsHandler.NewForm)
		r.Post(handler.RouteNewPost, postsHandler.Create)
		r.Get(handler.RouteEditPostID, postsHandler.EditForm)
		r.Post(handler.RouteEditPostID, postsHandler.Update)
		r.Get(handler.RouteDeletePostID, postsHandler.ConfirmDelete)
		r.Post(handler.RouteDeletePostID, postsHandler.Delete)
		r.Post(handler.RouteDeleteCommentID, postsHandler.DeleteComment)
	})

	return r
}

// New returns an http.Server for the configured address.
func New(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
