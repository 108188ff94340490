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
	"github.com/olegiv/oblog-go/internal/store"
)

const (
	msgDuplicateTitle = "A post with this title already exists."
	msgInvalidComment = "Comments must be between 3 and 100 characters."
	msgEmptyBody      = "The body has no content left once unsafe markup is removed."
)

// PostPage is the view model of the single post page.
type PostPage struct {
	Post     store.Post
	Comments []service.CommentView
}

// PostsHandler serves the public blog pages and the post management pages.
type PostsHandler struct {
	posts    *service.PostService
	comments *service.CommentService
	renderer *render.Renderer
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(posts *service.PostService, comments *service.CommentService, renderer *render.Renderer) *PostsHandler {
	return &PostsHandler{
		posts:    posts,
		comments: comments,
		renderer: renderer,
	}
}

// Home lists every post.
func (h *PostsHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		logAndInternalError(w, r, "listing posts", "error", err)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, tmplIndex, render.TemplateData{
		Title: "Home",
		Data:  posts,
	})
}

// Show renders one post with its comments and the comment form.
func (h *PostsHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, h.renderer)
	if !ok {
		return
	}
	h.renderPost(w, r, http.StatusOK, id, render.TemplateData{})
}

// renderPost loads the post and its comments into data and renders the post page.
func (h *PostsHandler) renderPost(w http.ResponseWriter, r *http.Request, status int, id int64, data render.TemplateData) {
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.renderer, "loading post", err)
		return
	}

	comments, err := h.comments.ListForPost(r.Context(), id)
	if err != nil {
		logAndInternalError(w, r, "listing comments", "error", err, "post_id", id)
		return
	}

	data.Title = post.Title
	data.Data = PostPage{Post: post, Comments: comments}
	renderPage(w, r, h.renderer, status, tmplPost, data)
}

// AddComment handles the comment form under a post.
func (h *PostsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, h.renderer)
	if !ok {
		return
	}
	if err := form.Parse(w, r); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	f := form.DecodeComment(r)
	if errs := f.Validate(); errs != nil {
		h.renderPost(w, r, http.StatusUnprocessableEntity, id, render.TemplateData{Form: f, Errors: errs})
		return
	}

	user := middleware.GetUser(r)
	comment, err := h.comments.Add(r.Context(), id, *user, f.Body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidComment) {
			h.renderPost(w, r, http.StatusUnprocessableEntity, id, render.TemplateData{
				Form:   f,
				Errors: form.Errors{"body": msgInvalidComment},
			})
			return
		}
		handleServiceError(w, r, h.renderer, "adding comment", err)
		return
	}

	slog.InfoContext(r.Context(), "comment added", "comment_id", comment.ID, "post_id", id)
	flashSuccess(w, r, h.renderer, postCommentsURL(id), "Comment added.")
}

// NewForm renders the empty post form.
func (h *PostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, tmplPostForm, render.TemplateData{Title: "New Post"})
}

// Create handles the new post form submission.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := form.Parse(w, r); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	f := form.DecodePost(r)
	data := render.TemplateData{Title: "New Post", Form: f}
	if errs := f.Validate(); errs != nil {
		data.Errors = errs
		renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, tmplPostForm, data)
		return
	}

	_, err := h.posts.Create(r.Context(), *middleware.GetUser(r), postInput(f))
	if err != nil {
		if h.renderPostFormError(w, r, data, err) {
			return
		}
		logAndInternalError(w, r, "creating post", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, RouteRoot, "Post created.")
}

// EditForm renders the post form filled with the current post.
func (h *PostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, h.renderer)
	if !ok {
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.renderer, "loading post", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplPostForm, render.TemplateData{
		Title: "Edit Post",
		Data:  post,
		Form: form.Post{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			ImgURL:   post.ImgUrl,
			Body:     post.Body,
		},
	})
}

// Update handles the edit post form submission.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, h.renderer)
	if !ok {
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.renderer, "loading post", err)
		return
	}

	if err := form.Parse(w, r); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	f := form.DecodePost(r)
	data := render.TemplateData{Title: "Edit Post", Data: post, Form: f}
	if errs := f.Validate(); errs != nil {
		data.Errors = errs
		renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, tmplPostForm, data)
		return
	}

	updated, err := h.posts.Update(r.Context(), id, postInput(f))
	if err != nil {
		if h.renderPostFormError(w, r, data, err) {
			return
		}
		handleServiceError(w, r, h.renderer, "updating post", err)
		return
	}

	flashSuccess(w, r, h.renderer, postURL(updated.ID), "Post updated.")
}

// renderPostFormError re-renders the post form for the errors a submission
// can fix and reports whether it did.
func (h *PostsHandler) renderPostFormError(w http.ResponseWriter, r *http.Request, data render.TemplateData, err error) bool {
	switch {
	case errors.Is(err, service.ErrDuplicateTitle):
		data.Errors = form.Errors{"title": msgDuplicateTitle}
		renderPage(w, r, h.renderer, http.StatusConflict, tmplPostForm, data)
	case errors.Is(err, service.ErrEmptyBody):
		data.Errors = form.Errors{"body": msgEmptyBody}
		renderPage(w, r, h.renderer, http.StatusUnprocessableEntity, tmplPostForm, data)
	default:
		return false
	}
	return true
}

// ConfirmDelete asks before deleting a post.
func (h *PostsHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, h.renderer)
	if !ok {
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.renderer, "loading post", err)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, tmplConfirmDelete, render.TemplateData{
		Title: "Delete Post",
		Data:  post,
	})
}

// Delete removes a post together with its comments.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, h.renderer)
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, h.renderer, "deleting post", err)
		return
	}

	flashSuccess(w, r, h.renderer, RouteRoot, "Post deleted.")
}

// DeleteComment removes a comment and returns to its post.
func (h *PostsHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, h.renderer)
	if !ok {
		return
	}

	postID, err := h.comments.Delete(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.renderer, "deleting comment", err)
		return
	}

	slog.InfoContext(r.Context(), "comment deleted", "comment_id", id, "post_id", postID)
	flashSuccess(w, r, h.renderer, postCommentsURL(postID), "Comment deleted.")
}

func postInput(f form.Post) service.PostInput {
	return service.PostInput{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Body:     f.Body,
		ImgURL:   f.ImgURL,
	}
}
