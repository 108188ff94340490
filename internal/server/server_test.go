package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog-go/internal/config"
	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/session"
	"github.com/olegiv/oblog-go/internal/testutil"
	"github.com/olegiv/oblog-go/internal/version"
	"github.com/olegiv/oblog-go/web"
)

type testApp struct {
	srv   *httptest.Server
	posts *service.PostService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	cfg := &config.Config{
		SessionSecret:  "k9Xq2LmV7pR4tW8zB1nC5dF3gH6jY0sA",
		ServerHost:     "127.0.0.1",
		ServerPort:     8080,
		Env:            "development",
		SiteName:       "Test Blog",
		RequestTimeout: 10 * time.Second,
	}

	sm := session.New(db, cfg.IsDevelopment(), time.Hour)
	renderer, err := render.New(render.Config{
		TemplatesFS:    web.TemplateFS(),
		SessionManager: sm,
		SiteName:       cfg.SiteName,
	})
	require.NoError(t, err)

	router := NewRouter(Deps{
		Config:   cfg,
		DB:       db,
		Logger:   testutil.TestLoggerSilent(),
		Identity: session.NewIdentity(sm, db),
		Renderer: renderer,
		Version:  version.Info{Version: "test"},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, posts: service.NewPostService(db)}
}

// browser is one visitor with its own cookie jar. Redirects are not followed
// so tests can assert on them.
type browser struct {
	t    *testing.T
	base string
	c    *http.Client
}

func (a *testApp) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: a.srv.URL,
		c: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type result struct {
	status   int
	location string
	header   http.Header
	body     string
}

func (b *browser) do(req *http.Request) result {
	b.t.Helper()
	resp, err := b.c.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return result{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		header:   resp.Header,
		body:     string(body),
	}
}

func (b *browser) get(path string) result {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) result {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) register(name, email, password string) {
	b.t.Helper()
	res := b.post("/register", url.Values{"name": {name}, "email": {email}, "password": {password}})
	require.Equal(b.t, http.StatusSeeOther, res.status, res.body)
	require.Equal(b.t, "/", res.location)
}

func postForm(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"Subtitle of " + title},
		"img_url":  {"https://example.com/" + strings.ReplaceAll(strings.ToLower(title), " ", "-") + ".jpg"},
		"body":     {"<p>Body of " + title + "</p>"},
	}
}

func TestEndToEnd_AdminLifecycle(t *testing.T) {
	app := newTestApp(t)
	ctx := t.Context()

	// A registers first and becomes the admin.
	a := app.browser(t)
	a.register("Alice", "alice@example.com", "alice-password")

	res := a.post("/new-post", postForm("P1"))
	require.Equal(t, http.StatusSeeOther, res.status, res.body)
	assert.Equal(t, "/", res.location)

	posts, err := app.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	p1 := posts[0]
	assert.Equal(t, "Alice", p1.Author)

	res = a.get("/")
	assert.Contains(t, res.body, "P1")
	assert.Contains(t, res.body, "Post created.")

	// B registers second and is a reader.
	b := app.browser(t)
	b.register("Bob", "bob@example.com", "bob-password")

	res = b.get("/new-post")
	assert.Equal(t, http.StatusForbidden, res.status)
	res = b.post("/new-post", postForm("Sneaky"))
	assert.Equal(t, http.StatusForbidden, res.status)
	res = b.post(fmt.Sprintf("/delete/%d", p1.ID), url.Values{})
	assert.Equal(t, http.StatusForbidden, res.status)

	// B may comment.
	res = b.post(fmt.Sprintf("/post/%d", p1.ID), url.Values{"body": {"First!"}})
	require.Equal(t, http.StatusSeeOther, res.status, res.body)
	assert.Equal(t, fmt.Sprintf("/post/%d#comments", p1.ID), res.location)
	res = b.get(fmt.Sprintf("/post/%d", p1.ID))
	assert.Contains(t, res.body, "First!")
	assert.Contains(t, res.body, "Bob")

	// A edits P1; owner, author and date stay.
	edit := postForm("P1 revised")
	res = a.post(fmt.Sprintf("/edit-post/%d", p1.ID), edit)
	require.Equal(t, http.StatusSeeOther, res.status, res.body)
	assert.Equal(t, fmt.Sprintf("/post/%d", p1.ID), res.location)

	got, err := app.posts.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "P1 revised", got.Title)
	assert.Equal(t, p1.Date, got.Date)
	assert.Equal(t, p1.Author, got.Author)
	assert.Equal(t, p1.UserID, got.UserID)

	// A deletes P1.
	res = a.get(fmt.Sprintf("/delete/%d", p1.ID))
	assert.Equal(t, http.StatusOK, res.status)
	res = a.post(fmt.Sprintf("/delete/%d", p1.ID), url.Values{})
	require.Equal(t, http.StatusSeeOther, res.status, res.body)
	assert.Equal(t, "/", res.location)

	_, err = app.posts.Get(ctx, p1.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	res = a.get(fmt.Sprintf("/post/%d", p1.ID))
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestEndToEnd_AnonymousIsSentToLogin(t *testing.T) {
	app := newTestApp(t)
	anon := app.browser(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/new-post"},
		{http.MethodPost, "/new-post"},
		{http.MethodGet, "/edit-post/1"},
		{http.MethodGet, "/delete/1"},
		{http.MethodPost, "/delete-comment/1"},
		{http.MethodGet, "/logout"},
		{http.MethodPost, "/post/1"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var res result
			if tc.method == http.MethodGet {
				res = anon.get(tc.path)
			} else {
				res = anon.post(tc.path, url.Values{})
			}
			assert.Equal(t, http.StatusSeeOther, res.status)
			assert.Equal(t, middleware.LoginPath, res.location)
		})
	}
}

func TestEndToEnd_LoginLogout(t *testing.T) {
	app := newTestApp(t)

	alice := app.browser(t)
	alice.register("Alice", "alice@example.com", "alice-password")

	c := app.browser(t)

	res := c.post("/login", url.Values{"email": {"nobody@example.com"}, "password": {"x"}})
	assert.Equal(t, http.StatusSeeOther, res.status)
	assert.Equal(t, "/register?error=no_such_user", res.location)

	res = c.post("/login", url.Values{"email": {"alice@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Contains(t, res.body, "Password incorrect")

	login := url.Values{"email": {"alice@example.com"}, "password": {"alice-password"}}
	res = c.post("/login", login)
	require.Equal(t, http.StatusSeeOther, res.status)
	first := cookieValue(t, c, app.srv.URL)
	require.NotEmpty(t, first)

	res = c.post("/login", login)
	require.Equal(t, http.StatusSeeOther, res.status)
	second := cookieValue(t, c, app.srv.URL)
	assert.NotEqual(t, first, second, "every login must issue a fresh session token")

	res = c.get("/new-post")
	assert.Equal(t, http.StatusOK, res.status)

	res = c.get("/logout")
	assert.Equal(t, http.StatusSeeOther, res.status)
	res = c.get("/new-post")
	assert.Equal(t, http.StatusSeeOther, res.status)
	assert.Equal(t, middleware.LoginPath, res.location)
}

func cookieValue(t *testing.T, b *browser, base string) string {
	t.Helper()
	u, err := url.Parse(base)
	require.NoError(t, err)
	for _, c := range b.c.Jar.Cookies(u) {
		if c.Name == "session" {
			return c.Value
		}
	}
	return ""
}

func TestEndToEnd_Plumbing(t *testing.T) {
	app := newTestApp(t)
	c := app.browser(t)

	t.Run("not found page", func(t *testing.T) {
		res := c.get("/no/such/page")
		assert.Equal(t, http.StatusNotFound, res.status)
		assert.Contains(t, res.body, "Page not found")
	})

	t.Run("non numeric id", func(t *testing.T) {
		res := c.get("/post/abc")
		assert.Equal(t, http.StatusNotFound, res.status)
	})

	t.Run("static assets", func(t *testing.T) {
		res := c.get("/static/dist/css/main.css")
		assert.Equal(t, http.StatusOK, res.status)
		assert.Contains(t, res.header.Get("Content-Type"), "text/css")
		assert.Contains(t, res.header.Get("Cache-Control"), "max-age=31536000")

		res = c.get("/static/dist/css/missing.css")
		assert.Equal(t, http.StatusNotFound, res.status)
		assert.Empty(t, res.header.Get("Cache-Control"))
	})

	t.Run("security headers and request id", func(t *testing.T) {
		res := c.get("/about")
		assert.Equal(t, http.StatusOK, res.status)
		assert.Equal(t, "nosniff", res.header.Get("X-Content-Type-Options"))
		assert.NotEmpty(t, res.header.Get("Content-Security-Policy"))
		assert.NotEmpty(t, res.header.Get(middleware.HeaderRequestID))
	})

	t.Run("trailing slash", func(t *testing.T) {
		res := c.get("/about/")
		assert.Equal(t, http.StatusMovedPermanently, res.status)
		assert.Equal(t, "/about", res.location)

		res = c.get("//evil.example/")
		assert.Equal(t, http.StatusMovedPermanently, res.status)
		assert.Equal(t, "/evil.example", res.location)
	})

	t.Run("health", func(t *testing.T) {
		res := c.get("/health")
		assert.Equal(t, http.StatusOK, res.status)
		assert.JSONEq(t, `{"status":"healthy"}`, res.body)
	})

	t.Run("robots hides development sites", func(t *testing.T) {
		res := c.get("/robots.txt")
		assert.Equal(t, http.StatusOK, res.status)
		assert.Equal(t, "User-agent: *\nDisallow: /\n", res.body)
	})

	t.Run("sitemap", func(t *testing.T) {
		res := c.get("/sitemap.xml")
		assert.Equal(t, http.StatusOK, res.status)
		assert.Contains(t, res.header.Get("Content-Type"), "application/xml")
		assert.Contains(t, res.body, "<loc>"+app.srv.URL+"/</loc>")
		assert.Contains(t, res.body, "<loc>"+app.srv.URL+"/about</loc>")
	})

	t.Run("cross site post is rejected", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, app.srv.URL+"/login",
			strings.NewReader(url.Values{"email": {"a@b.io"}, "password": {"x"}}.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		res := c.do(req)
		assert.Equal(t, http.StatusForbidden, res.status)
	})
}
