package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/yatube/internal/auth"
	"github.com/anonto42/yatube/internal/logging"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/internal/testhelpers"
)

type fixture struct {
	e        *echo.Echo
	sessions *auth.Sessions
	users    *repositories.GormUserRepository
	posts    *repositories.GormPostRepository
	leo, mia *models.User
	post     *models.Post
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testhelpers.OpenSQLite(t)
	require.NoError(t, repositories.Migrate(db))

	f := &fixture{
		e:        echo.New(),
		sessions: auth.NewSessions("secret", time.Hour, false),
		users:    repositories.NewGormUserRepository(db),
		posts:    repositories.NewGormPostRepository(db),
		leo:      &models.User{Username: "leo"},
		mia:      &models.User{Username: "mia"},
	}
	ctx := context.Background()
	require.NoError(t, f.users.CreateUser(ctx, f.leo))
	require.NoError(t, f.users.CreateUser(ctx, f.mia))
	f.post = &models.Post{Text: "hello", AuthorID: f.leo.ID}
	require.NoError(t, f.posts.CreatePost(ctx, f.post))

	f.e.Use(Identity(f.sessions, f.users, logging.Discard()))
	whoami := func(c echo.Context) error {
		if u := CurrentUser(c); u != nil {
			return c.String(http.StatusOK, u.Username)
		}
		return c.String(http.StatusOK, "anonymous")
	}
	f.e.GET("/whoami/", whoami)
	f.e.GET("/new/", whoami, RequireLogin())
	f.e.GET("/:username/:post_id/edit/", func(c echo.Context) error {
		post, err := LookupPost(c, f.posts)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, "editing "+post.Text)
	}, RequireLogin(), PostOwner(f.posts))
	return f
}

func (f *fixture) do(t *testing.T, target string, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if user != nil {
		token, err := f.sessions.Issue(user)
		require.NoError(t, err)
		req.AddCookie(f.sessions.Cookie(token))
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestIdentity(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "anonymous", f.do(t, "/whoami/", nil).Body.String())
	assert.Equal(t, "leo", f.do(t, "/whoami/", f.leo).Body.String())

	t.Run("tampered cookie is dropped", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami/", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "garbage"})
		rec := httptest.NewRecorder()
		f.e.ServeHTTP(rec, req)
		assert.Equal(t, "anonymous", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Set-Cookie"), auth.CookieName+"=;")
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost := &models.User{ID: 999, Username: "ghost"}
		assert.Equal(t, "anonymous", f.do(t, "/whoami/", ghost).Body.String())
	})
}

func TestRequireLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, "/new/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login/?next=/new/", rec.Header().Get(echo.HeaderLocation))

	rec = f.do(t, "/new/", f.mia)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostOwner(t *testing.T) {
	f := newFixture(t)
	editURL := "/leo/" + itoa(f.post.ID) + "/edit/"

	rec := f.do(t, editURL, f.leo)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "editing hello", rec.Body.String())

	rec = f.do(t, editURL, f.mia)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/leo/"+itoa(f.post.ID)+"/", rec.Header().Get(echo.HeaderLocation))

	rec = f.do(t, "/mia/"+itoa(f.post.ID)+"/edit/", f.mia)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, "/leo/abc/edit/", f.leo)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, editURL, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login/?next="+editURL, rec.Header().Get(echo.HeaderLocation))
}

func TestOwns(t *testing.T) {
	post := &models.Post{AuthorID: 1}
	assert.True(t, Owns(&models.User{ID: 1}, post))
	assert.False(t, Owns(&models.User{ID: 2}, post))
	assert.False(t, Owns(nil, post))
	assert.False(t, Owns(&models.User{ID: 1}, nil))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
