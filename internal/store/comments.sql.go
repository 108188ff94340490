// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createComment = `-- name: CreateComment :one
INSERT INTO comments (post_id, user_id, body, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, post_id, user_id, body, created_at`

type CreateCommentParams struct {
	PostID    int64
	UserID    int64
	Body      string
	CreatedAt time.Time
}

func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (Comment, error) {
	row := q.db.QueryRowContext(ctx, createComment, arg.PostID, arg.UserID, arg.Body, arg.CreatedAt)
	var i Comment
	err := row.Scan(&i.ID, &i.PostID, &i.UserID, &i.Body, &i.CreatedAt)
	return i, err
}

const listCommentsForPost = `-- name: ListCommentsForPost :many
SELECT c.id, c.post_id, c.user_id, c.body, c.created_at, u.name AS author_name
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.post_id = ?
ORDER BY c.created_at, c.id`

type ListCommentsForPostRow struct {
	ID         int64
	PostID     int64
	UserID     int64
	Body       string
	CreatedAt  time.Time
	AuthorName string
}

func (q *Queries) ListCommentsForPost(ctx context.Context, postID int64) ([]ListCommentsForPostRow, error) {
	rows, err := q.db.QueryContext(ctx, listCommentsForPost, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListCommentsForPostRow
	for rows.Next() {
		var i ListCommentsForPostRow
		if err := rows.Scan(
			&i.ID,
			&i.PostID,
			&i.UserID,
			&i.Body,
			&i.CreatedAt,
			&i.AuthorName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteComment = `-- name: DeleteComment :one
DELETE FROM comments WHERE id = ?
RETURNING post_id`

// DeleteComment removes a comment and returns the id of the post it belonged to.
// It returns sql.ErrNoRows when no comment has the id.
func (q *Queries) DeleteComment(ctx context.Context, id int64) (int64, error) {
	var postID int64
	err := q.db.QueryRowContext(ctx, deleteComment, id).Scan(&postID)
	return postID, err
}
