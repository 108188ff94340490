// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/oblog-go/internal/auth"
	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/store"
)

// UserService registers accounts and verifies credentials.
type UserService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{
		queries: store.New(db),
		now:     time.Now,
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. The first account ever created is the admin,
// every later one a reader. Returns ErrEmailTaken when the email is in use,
// in which case nothing is written.
func (s *UserService) Register(ctx context.Context, name, email, password string) (store.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		DefaultRole:  model.RoleReader,
		FirstRole:    model.RoleAdmin,
		Name:         strings.TrimSpace(name),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return store.User{}, ErrEmailTaken
		}
		return store.User{}, fmt.Errorf("creating user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Verify checks an email and password pair. It returns ErrNoSuchUser when no
// account has the email and ErrBadCredentials when the password is wrong.
// On success the last login time is recorded and outdated hashes are upgraded.
func (s *UserService) Verify(ctx context.Context, email, password string) (store.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.User{}, ErrNoSuchUser
		}
		return store.User{}, fmt.Errorf("loading user: %w", err)
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.ErrorContext(ctx, "password check error", "error", err, "user_id", user.ID)
		return store.User{}, ErrBadCredentials
	}
	if !valid {
		slog.DebugContext(ctx, "invalid password attempt", "user_id", user.ID)
		return store.User{}, ErrBadCredentials
	}

	now := s.now()
	lastLogin := sql.NullTime{Time: now, Valid: true}
	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: lastLogin,
		ID:          user.ID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to record last login", "error", err, "user_id", user.ID)
	} else {
		user.LastLoginAt = lastLogin
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    now,
				ID:           user.ID,
			}); err != nil {
				slog.ErrorContext(ctx, "failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				user.PasswordHash = newHash
				slog.InfoContext(ctx, "password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	return user, nil
}

// Get returns the user with id or ErrNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (store.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.User{}, ErrNotFound
		}
		return store.User{}, fmt.Errorf("loading user %d: %w", id, err)
	}
	return user, nil
}
