// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the blog's business rules: accounts and credentials,
// posts and comments. Handlers talk to services, services talk to the store.
package service

import "errors"

// Errors returned by the services. Handlers match them with errors.Is.
var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrNoSuchUser     = errors.New("no account with that email")
	ErrBadCredentials = errors.New("incorrect password")
	ErrDuplicateTitle = errors.New("a post with that title already exists")
	ErrNotFound       = errors.New("not found")
	ErrInvalidComment = errors.New("comment length out of range")
	ErrEmptyBody      = errors.New("post body is empty after sanitizing")
)
