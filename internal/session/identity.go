// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog-go/internal/store"
)

// KeyUserID is the session key holding the logged-in user's id.
const KeyUserID = "user_id"

// Identity binds sessions to users.
type Identity struct {
	sm      *scs.SessionManager
	queries *store.Queries
}

// NewIdentity creates an Identity on top of sm, reading users from db.
func NewIdentity(sm *scs.SessionManager, db *sql.DB) *Identity {
	return &Identity{
		sm:      sm,
		queries: store.New(db),
	}
}

// Manager returns the underlying session manager.
func (i *Identity) Manager() *scs.SessionManager {
	return i.sm
}

// Start binds user to the session in ctx. The token is renewed first so a
// token issued before login can never carry an identity. It returns the new token.
func (i *Identity) Start(ctx context.Context, user store.User) (string, error) {
	if err := i.sm.RenewToken(ctx); err != nil {
		return "", fmt.Errorf("renewing session token: %w", err)
	}
	i.sm.Put(ctx, KeyUserID, user.ID)
	return i.sm.Token(ctx), nil
}

// Resolve returns the user bound to the session in ctx, or nil for an
// anonymous session. A user id pointing at a missing account counts as anonymous.
func (i *Identity) Resolve(ctx context.Context) (*store.User, error) {
	userID := i.sm.GetInt64(ctx, KeyUserID)
	if userID == 0 {
		return nil, nil
	}

	user, err := i.queries.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading session user %d: %w", userID, err)
	}
	return &user, nil
}

// ResolveToken loads the session identified by token and resolves it. Unknown
// and expired tokens resolve to nil.
func (i *Identity) ResolveToken(ctx context.Context, token string) (*store.User, error) {
	loaded, err := i.sm.Load(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return i.Resolve(loaded)
}

// End destroys the session in ctx. Ending an anonymous session is not an error.
func (i *Identity) End(ctx context.Context) error {
	if err := i.sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}
