// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/store"
)

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

func (in PostInput) normalized() PostInput {
	return PostInput{
		Title:    strings.TrimSpace(in.Title),
		Subtitle: strings.TrimSpace(in.Subtitle),
		Body:     strings.TrimSpace(SanitizeHTML(in.Body)),
		ImgURL:   strings.TrimSpace(in.ImgURL),
	}
}

// PostService manages blog posts.
type PostService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewPostService creates a new PostService using the wall clock.
func NewPostService(db *sql.DB) *PostService {
	return NewPostServiceWithClock(db, time.Now)
}

// NewPostServiceWithClock creates a PostService that stamps posts with now().
func NewPostServiceWithClock(db *sql.DB, now func() time.Time) *PostService {
	return &PostService{
		queries: store.New(db),
		now:     now,
	}
}

// All streams every post, newest first. Iteration stops at the first error,
// which is yielded with a zero Post.
func (s *PostService) All(ctx context.Context) iter.Seq2[store.Post, error] {
	return func(yield func(store.Post, error) bool) {
		rows, err := s.queries.ListPostsRows(ctx)
		if err != nil {
			yield(store.Post{}, fmt.Errorf("listing posts: %w", err))
			return
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			post, err := store.ScanPost(rows)
			if err != nil {
				yield(store.Post{}, fmt.Errorf("scanning post: %w", err))
				return
			}
			if !yield(post, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(store.Post{}, fmt.Errorf("listing posts: %w", err))
		}
	}
}

// List collects All into a slice.
func (s *PostService) List(ctx context.Context) ([]store.Post, error) {
	var posts []store.Post
	for post, err := range s.All(ctx) {
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Get returns the post with id or ErrNotFound.
func (s *PostService) Get(ctx context.Context, id int64) (store.Post, error) {
	post, err := s.queries.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Post{}, ErrNotFound
		}
		return store.Post{}, fmt.Errorf("loading post %d: %w", id, err)
	}
	return post, nil
}

// Create stores a new post owned by owner. The author name and the display
// date are fixed at creation. Returns ErrDuplicateTitle when the title is taken
// and ErrEmptyBody when nothing of the body survives sanitizing.
func (s *PostService) Create(ctx context.Context, owner store.User, in PostInput) (store.Post, error) {
	in = in.normalized()
	if in.Body == "" {
		return store.Post{}, ErrEmptyBody
	}
	now := s.now()

	post, err := s.queries.CreatePost(ctx, store.CreatePostParams{
		UserID:    owner.ID,
		Author:    owner.Name,
		Title:     in.Title,
		Subtitle:  in.Subtitle,
		Date:      model.FormatPostDate(now),
		Body:      in.Body,
		ImgUrl:    in.ImgURL,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return store.Post{}, ErrDuplicateTitle
		}
		return store.Post{}, fmt.Errorf("creating post: %w", err)
	}

	slog.InfoContext(ctx, "post created", "post_id", post.ID, "user_id", owner.ID)
	return post, nil
}

// Update overwrites the title, subtitle, body and image URL of a post. The
// author and date are left untouched. A post may keep its own title.
func (s *PostService) Update(ctx context.Context, id int64, in PostInput) (store.Post, error) {
	in = in.normalized()
	if in.Body == "" {
		return store.Post{}, ErrEmptyBody
	}

	post, err := s.queries.UpdatePost(ctx, store.UpdatePostParams{
		Title:     in.Title,
		Subtitle:  in.Subtitle,
		Body:      in.Body,
		ImgUrl:    in.ImgURL,
		UpdatedAt: s.now(),
		ID:        id,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Post{}, ErrNotFound
		}
		if store.IsUniqueViolation(err) {
			return store.Post{}, ErrDuplicateTitle
		}
		return store.Post{}, fmt.Errorf("updating post %d: %w", id, err)
	}

	slog.InfoContext(ctx, "post updated", "post_id", post.ID)
	return post, nil
}

// Delete removes a post and its comments. Returns ErrNotFound when there was
// nothing to delete.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeletePost(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "post deleted", "post_id", id)
	return nil
}
