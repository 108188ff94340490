// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog-go/internal/testutil"
)

func TestIdentity_Lifecycle(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	user := testutil.CreateUser(t, db, "Ann", "ann@example.com", "password-1")
	sm := New(db, true, time.Hour)
	id := NewIdentity(sm, db)
	bg := context.Background()

	ctx, err := sm.Load(bg, "")
	require.NoError(t, err)

	anon, err := id.Resolve(ctx)
	require.NoError(t, err)
	assert.Nil(t, anon, "fresh session should be anonymous")

	token, err := id.Start(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, _, err = sm.Commit(ctx)
	require.NoError(t, err)

	resolved, err := id.ResolveToken(bg, token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, user.ID, resolved.ID)

	loaded, err := sm.Load(bg, token)
	require.NoError(t, err)
	require.NoError(t, id.End(loaded))

	after, err := id.ResolveToken(bg, token)
	require.NoError(t, err)
	assert.Nil(t, after, "ended session should be anonymous")

	// Ending again is harmless.
	require.NoError(t, id.End(loaded))
}

func TestIdentity_StartRenewsToken(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	user := testutil.CreateUser(t, db, "Ann", "ann@example.com", "password-1")
	sm := New(db, true, time.Hour)
	id := NewIdentity(sm, db)
	bg := context.Background()

	// Persist an anonymous session and remember its token.
	ctx, err := sm.Load(bg, "")
	require.NoError(t, err)
	sm.Put(ctx, "visited", true)
	before, _, err := sm.Commit(ctx)
	require.NoError(t, err)

	ctx, err = sm.Load(bg, before)
	require.NoError(t, err)
	after, err := id.Start(ctx, user)
	require.NoError(t, err)
	_, _, err = sm.Commit(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)

	old, err := id.ResolveToken(bg, before)
	require.NoError(t, err)
	assert.Nil(t, old, "pre-login token must not carry the identity")
}

func TestIdentity_IndependentSessions(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	user := testutil.CreateUser(t, db, "Ann", "ann@example.com", "password-1")
	sm := New(db, true, time.Hour)
	id := NewIdentity(sm, db)
	bg := context.Background()

	start := func() string {
		ctx, err := sm.Load(bg, "")
		require.NoError(t, err)
		token, err := id.Start(ctx, user)
		require.NoError(t, err)
		_, _, err = sm.Commit(ctx)
		require.NoError(t, err)
		return token
	}

	first := start()
	second := start()
	require.NotEqual(t, first, second)

	ctx, err := sm.Load(bg, first)
	require.NoError(t, err)
	require.NoError(t, id.End(ctx))

	other, err := id.ResolveToken(bg, second)
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, user.ID, other.ID)
}

func TestIdentity_UnknownToken(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	id := NewIdentity(New(db, true, time.Hour), db)

	user, err := id.ResolveToken(context.Background(), "no-such-token")
	require.NoError(t, err)
	assert.Nil(t, user)
}
