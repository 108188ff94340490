package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/service"
	"github.com/olegiv/oblog-go/internal/session"
	"github.com/olegiv/oblog-go/internal/store"
	"github.com/olegiv/oblog-go/internal/testutil"
	"github.com/olegiv/oblog-go/web"
)

// testEnv bundles the dependencies handlers are built from.
type testEnv struct {
	db       *sql.DB
	sm       *scs.SessionManager
	identity *session.Identity
	renderer *render.Renderer
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	sm := session.New(db, true, 0)
	renderer, err := render.New(render.Config{
		TemplatesFS:    web.TemplateFS(),
		SessionManager: sm,
		SiteName:       "Test Blog",
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	return &testEnv{
		db:       db,
		sm:       sm,
		identity: session.NewIdentity(sm, db),
		renderer: renderer,
		users:    service.NewUserService(db),
		posts:    service.NewPostService(db),
		comments: service.NewCommentService(db),
	}
}

func (e *testEnv) authHandler() *AuthHandler {
	return NewAuthHandler(e.users, e.identity, e.renderer)
}

func (e *testEnv) postsHandler() *PostsHandler {
	return NewPostsHandler(e.posts, e.comments, e.renderer)
}

// do runs h for one request routed through pattern, inside the session
// manager, with user (if not nil) placed in the context the way LoadUser does.
func (e *testEnv) do(t *testing.T, h http.HandlerFunc, method, pattern, target string, form url.Values, user *store.User) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.Use(e.sm.LoadAndSave)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if user != nil {
				req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyUser, *user))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Method(method, pattern, h)

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ptr[T any](v T) *T { return &v }
