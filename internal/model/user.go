// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain vocabulary shared across the application:
// user roles and the presentation rules for posts.
package model

// User roles.
const (
	RoleReader = "reader"
	RoleAdmin  = "admin"
)

// IsAdmin reports whether role is the admin role. Role names are case-sensitive.
func IsAdmin(role string) bool {
	return role == RoleAdmin
}
