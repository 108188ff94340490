// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const postColumns = `id, user_id, author, title, subtitle, date, body, img_url, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var i Post
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Author,
		&i.Title,
		&i.Subtitle,
		&i.Date,
		&i.Body,
		&i.ImgUrl,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createPost = `-- name: CreatePost :one
INSERT INTO blog_posts (user_id, author, title, subtitle, date, body, img_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + postColumns

type CreatePostParams struct {
	UserID    int64
	Author    string
	Title     string
	Subtitle  string
	Date      string
	Body      string
	ImgUrl    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.UserID,
		arg.Author,
		arg.Title,
		arg.Subtitle,
		arg.Date,
		arg.Body,
		arg.ImgUrl,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPost(row)
}

const getPostByID = `-- name: GetPostByID :one
SELECT ` + postColumns + ` FROM blog_posts WHERE id = ?`

func (q *Queries) GetPostByID(ctx context.Context, id int64) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostByID, id))
}

const listPosts = `-- name: ListPosts :many
SELECT ` + postColumns + ` FROM blog_posts ORDER BY created_at DESC, id DESC`

// ListPostsRows returns the open result set of every post, newest first, for
// callers that stream rows. The caller must close the rows.
func (q *Queries) ListPostsRows(ctx context.Context) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, listPosts)
}

// ScanPost reads one post from a row produced by ListPostsRows.
func ScanPost(rows *sql.Rows) (Post, error) {
	return scanPost(rows)
}

const countPosts = `-- name: CountPosts :one
SELECT COUNT(*) FROM blog_posts`

func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPosts).Scan(&count)
	return count, err
}

const updatePost = `-- name: UpdatePost :one
UPDATE blog_posts
SET title = ?, subtitle = ?, body = ?, img_url = ?, updated_at = ?
WHERE id = ?
RETURNING ` + postColumns

type UpdatePostParams struct {
	Title     string
	Subtitle  string
	Body      string
	ImgUrl    string
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, updatePost,
		arg.Title,
		arg.Subtitle,
		arg.Body,
		arg.ImgUrl,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPost(row)
}

const deletePost = `-- name: DeletePost :execrows
DELETE FROM blog_posts WHERE id = ?`

func (q *Queries) DeletePost(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePost, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
