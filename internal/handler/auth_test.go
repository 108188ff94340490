package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog-go/internal/model"
	"github.com/olegiv/oblog-go/internal/testutil"
)

func TestRegisterForm(t *testing.T) {
	env := newTestEnv(t)
	h := env.authHandler()

	t.Run("renders", func(t *testing.T) {
		w := env.do(t, h.RegisterForm, http.MethodGet, RouteRegister, "/register", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `action="/register"`)
	})

	t.Run("known error code", func(t *testing.T) {
		w := env.do(t, h.RegisterForm, http.MethodGet, RouteRegister, "/register?error=no_such_user", nil, nil)
		assert.Contains(t, w.Body.String(), "not registered yet")
	})

	t.Run("unknown error code is ignored", func(t *testing.T) {
		w := env.do(t, h.RegisterForm, http.MethodGet, RouteRegister, "/register?error=%3Cb%3Ehi", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "hi</b>")
		assert.NotContains(t, w.Body.String(), "&lt;b&gt;hi")
	})

	t.Run("logged in users are sent home", func(t *testing.T) {
		u := testutil.CreateUser(t, env.db, "Ada", "ada@example.com", "pw")
		w := env.do(t, h.RegisterForm, http.MethodGet, RouteRegister, "/register", nil, &u)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	h := env.authHandler()
	ctx := context.Background()

	form := url.Values{"name": {"Ada"}, "email": {"Ada@Example.com"}, "password": {"s3cret-pass"}}

	w := env.do(t, h.Register, http.MethodPost, RouteRegister, "/register", form, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotEmpty(t, w.Result().Cookies(), "a session cookie should be issued")

	user, err := env.users.Verify(ctx, "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role, "first registrant is admin")

	t.Run("duplicate email", func(t *testing.T) {
		w := env.do(t, h.Register, http.MethodPost, RouteRegister, "/register", form, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already signed up with that email")
		assert.NotContains(t, w.Body.String(), "s3cret-pass")

		var count int
		require.NoError(t, env.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("validation errors", func(t *testing.T) {
		bad := url.Values{"name": {""}, "email": {"nope"}, "password": {"hunter2"}}
		w := env.do(t, h.Register, http.MethodPost, RouteRegister, "/register", bad, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "This field is required.")
		assert.Contains(t, body, "Enter a valid email address.")
		assert.Contains(t, body, `value="nope"`)
		assert.NotContains(t, body, "hunter2")
	})

	t.Run("second user is a reader", func(t *testing.T) {
		other := url.Values{"name": {"Bob"}, "email": {"bob@example.com"}, "password": {"pw"}}
		w := env.do(t, h.Register, http.MethodPost, RouteRegister, "/register", other, nil)
		require.Equal(t, http.StatusSeeOther, w.Code)

		bob, err := env.users.Verify(ctx, "bob@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, model.RoleReader, bob.Role)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	h := env.authHandler()
	_, err := env.users.Register(context.Background(), "Ada", "ada@example.com", "right-password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		form     url.Values
		status   int
		location string
		body     string
	}{
		{
			name:     "success",
			form:     url.Values{"email": {"ada@example.com"}, "password": {"right-password"}},
			status:   http.StatusSeeOther,
			location: "/",
		},
		{
			name:     "email is case insensitive",
			form:     url.Values{"email": {"ADA@example.com"}, "password": {"right-password"}},
			status:   http.StatusSeeOther,
			location: "/",
		},
		{
			name:     "unknown email",
			form:     url.Values{"email": {"nobody@example.com"}, "password": {"x"}},
			status:   http.StatusSeeOther,
			location: "/register?error=no_such_user",
		},
		{
			name:   "wrong password",
			form:   url.Values{"email": {"ada@example.com"}, "password": {"wrong"}},
			status: http.StatusUnauthorized,
			body:   "Password incorrect",
		},
		{
			name:   "missing fields",
			form:   url.Values{"email": {""}, "password": {""}},
			status: http.StatusUnprocessableEntity,
			body:   "This field is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, h.Login, http.MethodPost, RouteLogin, "/login", tt.form, nil)
			assert.Equal(t, tt.status, w.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
			if tt.body != "" {
				assert.Contains(t, w.Body.String(), tt.body)
			}
		})
	}

	t.Run("repeated failures never succeed", func(t *testing.T) {
		for range 3 {
			w := env.do(t, h.Login, http.MethodPost, RouteLogin, "/login",
				url.Values{"email": {"ada@example.com"}, "password": {"wrong"}}, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		}
	})
}

func TestLoginForm(t *testing.T) {
	env := newTestEnv(t)
	h := env.authHandler()

	w := env.do(t, h.LoginForm, http.MethodGet, RouteLogin, "/login", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/login"`)

	u := testutil.CreateUser(t, env.db, "Ada", "ada@example.com", "pw")
	w = env.do(t, h.LoginForm, http.MethodGet, RouteLogin, "/login", nil, &u)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	h := env.authHandler()
	u := testutil.CreateUser(t, env.db, "Ada", "ada@example.com", "pw")

	w := env.do(t, h.Logout, http.MethodGet, RouteLogout, "/logout", nil, &u)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRegisterErrorMessages(t *testing.T) {
	for code, msg := range registerErrorMessages {
		assert.NotEmpty(t, msg, code)
		assert.False(t, strings.ContainsAny(code, "<>&\"' "), "codes are plain identifiers: %q", code)
	}
	_, ok := registerErrorMessages[errorNoSuchUser]
	assert.True(t, ok)
}
