package views

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/pagination"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(func(key string) string { return "/media/" + key })
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func render(t *testing.T, r *Renderer, name string, data echo.Map, user *models.User) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/leo/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if user != nil {
		middleware.SetUser(c, user)
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, data, c))
	return buf.String()
}

func samplePage() *pagination.Page[models.Post] {
	leo := models.User{ID: 1, Username: "leo"}
	group := &models.Group{ID: 2, Title: "Cats", Slug: "cats"}
	return &pagination.Page[models.Post]{
		Items: []models.Post{
			{ID: 5, Text: "hello <b>world</b>", Author: leo, AuthorID: 1, Group: group, Image: "posts/a.gif", CreatedAt: time.Now()},
			{ID: 4, Text: "plain", Author: leo, AuthorID: 1, CreatedAt: time.Now()},
		},
		Number:     2,
		NumPages:   3,
		TotalItems: 22,
		PageSize:   10,
	}
}

func TestRenderer_AllPagesRender(t *testing.T) {
	r := newTestRenderer(t)
	leo := &models.User{ID: 1, Username: "leo"}
	mia := &models.User{ID: 2, Username: "mia"}
	page := samplePage()
	post := &page.Items[0]

	pages := map[string]echo.Map{
		"posts/index.html":  {"page": page},
		"posts/follow.html": {"page": page},
		"posts/group.html":  {"page": page, "group": post.Group},
		"posts/profile.html": {
			"page": page, "author": leo, "following": true,
			"followers_count": int64(1), "following_count": int64(0), "posts_count": int64(22),
		},
		"posts/post.html": {
			"post": post, "author": leo, "comments": []models.Comment{{Text: "nice", Author: *mia}},
			"comments_count": int64(1), "form": models.CommentForm{}, "errors": map[string]string{},
		},
		"posts/new_post.html": {
			"form": models.PostForm{Text: "draft", Group: "2"}, "groups": []models.Group{*post.Group},
			"errors": map[string]string{"text": "This field is required."}, "is_edit": true, "post": post,
		},
		"misc/404.html":        {"path": "/missing/"},
		"misc/500.html":        {},
		"about/author.html":    {},
		"about/tech.html":      {},
		"auth/login.html":      {"form": models.LoginForm{}, "next": "/new/", "firebase": true},
		"auth/signup.html":     {"form": models.SignupForm{}},
		"auth/logged_out.html": {},
	}
	assert.ElementsMatch(t, keys(pages), r.Names())

	for name, data := range pages {
		for _, user := range []*models.User{nil, mia} {
			out := render(t, r, name, data, user)
			assert.Contains(t, out, "&copy; 2021", name)
		}
	}
}

func TestRenderer_ListingContent(t *testing.T) {
	r := newTestRenderer(t)
	out := render(t, r, "posts/index.html", echo.Map{"page": samplePage()}, nil)

	assert.Contains(t, out, "hello &lt;b&gt;world&lt;/b&gt;")
	assert.Contains(t, out, `src="/media/posts/a.gif"`)
	assert.Contains(t, out, `href="/group/cats/"`)
	assert.Contains(t, out, `href="/leo/5/"`)
	assert.Contains(t, out, `href="/leo/?page=1"`)
	assert.Contains(t, out, `href="/leo/?page=3"`)
	assert.Contains(t, out, "Log in")
}

func TestRenderer_UserAndErrors(t *testing.T) {
	r := newTestRenderer(t)
	out := render(t, r, "posts/new_post.html", echo.Map{
		"form":   models.PostForm{},
		"errors": map[string]string{"text": "This field is required."},
	}, &models.User{ID: 3, Username: "sam"})

	assert.Contains(t, out, `href="/sam/"`)
	assert.Contains(t, out, "This field is required.")
	assert.NotContains(t, out, "Currently:")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)
	err := r.Render(&bytes.Buffer{}, "posts/missing.html", nil, nil)
	assert.Error(t, err)
}

func keys(m map[string]echo.Map) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
