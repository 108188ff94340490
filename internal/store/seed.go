package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/oblog-go/internal/auth"
	"github.com/olegiv/oblog-go/internal/model"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

const (
	welcomeTitle    = "Welcome to the blog"
	welcomeSubtitle = "Your first post"
	welcomeBody     = "<p>This post was created on first start. Edit or delete it from the post page.</p>"
)

// Seed creates the initial admin user and a welcome post on an empty database.
// It does nothing once any user exists.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Info("users already exist, skipping seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		DefaultRole:  model.RoleReader,
		FirstRole:    model.RoleAdmin,
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if IsUniqueViolation(err) {
			// A concurrent registration won the race.
			return nil
		}
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
		"role", user.Role,
	)

	post, err := queries.CreatePost(ctx, CreatePostParams{
		UserID:    user.ID,
		Author:    user.Name,
		Title:     welcomeTitle,
		Subtitle:  welcomeSubtitle,
		Date:      model.FormatPostDate(now),
		Body:      welcomeBody,
		ImgUrl:    "",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("creating welcome post: %w", err)
	}

	slog.Info("created welcome post", "id", post.ID)
	return nil
}
