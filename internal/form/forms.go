// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"net/http"
	"strings"
)

// Register is the sign-up form.
type Register struct {
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email,max=254"`
	Password string `form:"password" validate:"required,max=128"`
}

// DecodeRegister reads a Register form from a parsed request.
func DecodeRegister(r *http.Request) Register {
	return Register{
		Name:     strings.TrimSpace(r.PostForm.Get("name")),
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
}

// Validate returns the field errors of f, or nil.
func (f Register) Validate() Errors { return check(f) }

// Login is the sign-in form.
type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// DecodeLogin reads a Login form from a parsed request.
func DecodeLogin(r *http.Request) Login {
	return Login{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
}

// Validate returns the field errors of f, or nil.
func (f Login) Validate() Errors { return check(f) }

// Post is the create and edit form for blog posts. Body is HTML.
type Post struct {
	Title    string `form:"title" validate:"required,max=250"`
	Subtitle string `form:"subtitle" validate:"required,max=250"`
	ImgURL   string `form:"img_url" validate:"required,http_url,max=2048"`
	Body     string `form:"body" validate:"required"`
}

// DecodePost reads a Post form from a parsed request.
func DecodePost(r *http.Request) Post {
	return Post{
		Title:    strings.TrimSpace(r.PostForm.Get("title")),
		Subtitle: strings.TrimSpace(r.PostForm.Get("subtitle")),
		ImgURL:   strings.TrimSpace(r.PostForm.Get("img_url")),
		Body:     strings.TrimSpace(r.PostForm.Get("body")),
	}
}

// Validate returns the field errors of f, or nil.
func (f Post) Validate() Errors { return check(f) }

// Comment is the comment form under a post. Body is Markdown.
type Comment struct {
	Body string `form:"body" validate:"required,min=3,max=100"`
}

// DecodeComment reads a Comment form from a parsed request.
func DecodeComment(r *http.Request) Comment {
	return Comment{Body: strings.TrimSpace(r.PostForm.Get("body"))}
}

// Validate returns the field errors of f, or nil.
func (f Comment) Validate() Errors { return check(f) }
