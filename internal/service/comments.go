// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/store"
)

// CommentView is a comment prepared for display.
type CommentView struct {
	ID         int64
	PostID     int64
	UserID     int64
	AuthorName string
	Source     string
	HTML       template.HTML
	CreatedAt  time.Time
}

// CommentService manages comments on posts.
type CommentService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{
		queries: store.New(db),
		now:     time.Now,
	}
}

// Add stores a comment by author on the post with postID. The body is Markdown.
func (s *CommentService) Add(ctx context.Context, postID int64, author store.User, body string) (store.Comment, error) {
	body = strings.TrimSpace(body)
	if n := utf8.RuneCountInString(body); n < model.CommentMinLength || n > model.CommentMaxLength {
		return store.Comment{}, ErrInvalidComment
	}

	if _, err := s.queries.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Comment{}, ErrNotFound
		}
		return store.Comment{}, fmt.Errorf("loading post %d: %w", postID, err)
	}

	comment, err := s.queries.CreateComment(ctx, store.CreateCommentParams{
		PostID:    postID,
		UserID:    author.ID,
		Body:      body,
		CreatedAt: s.now(),
	})
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return store.Comment{}, ErrNotFound
		}
		return store.Comment{}, fmt.Errorf("creating comment: %w", err)
	}
	return comment, nil
}

// ListForPost returns the comments of a post, oldest first.
func (s *CommentService) ListForPost(ctx context.Context, postID int64) ([]CommentView, error) {
	rows, err := s.queries.ListCommentsForPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments for post %d: %w", postID, err)
	}

	views := make([]CommentView, 0, len(rows))
	for _, row := range rows {
		rendered, err := RenderMarkdown(row.Body)
		if err != nil {
			return nil, fmt.Errorf("rendering comment %d: %w", row.ID, err)
		}
		views = append(views, CommentView{
			ID:         row.ID,
			PostID:     row.PostID,
			UserID:     row.UserID,
			AuthorName: row.AuthorName,
			Source:     row.Body,
			HTML:       rendered,
			CreatedAt:  row.CreatedAt,
		})
	}
	return views, nil
}

// Delete removes a comment and returns the id of its post. Returns ErrNotFound
// when there was nothing to delete.
func (s *CommentService) Delete(ctx context.Context, id int64) (int64, error) {
	postID, err := s.queries.DeleteComment(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("deleting comment %d: %w", id, err)
	}
	return postID, nil
}
