// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// PostDateLayout renders dates as "March 05, 2026". The date is formatted once,
// when the post is created, and stored as text.
const PostDateLayout = "January 02, 2006"

// FormatPostDate formats t in the server's local time zone.
func FormatPostDate(t time.Time) string {
	return t.Local().Format(PostDateLayout)
}

// Comment body length limits, counted in characters after trimming.
const (
	CommentMinLength = 3
	CommentMaxLength = 100
)
