// Package views renders the HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/urls"
)

//go:embed templates
var files embed.FS

const layout = "base.html"

// Renderer implements echo.Renderer. Every page is parsed together with
// the base layout and the shared includes.
type Renderer struct {
	pages map[string]*template.Template
	now   func() time.Time
}

// NewRenderer parses all templates. media turns a stored image key into
// its public URL.
func NewRenderer(media func(key string) string) (*Renderer, error) {
	base, err := template.New(layout).Funcs(funcs(media)).
		ParseFS(files, "templates/"+layout, "templates/includes/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template), now: time.Now}
	err = fs.WalkDir(files, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := strings.TrimPrefix(path, "templates/")
		if d.IsDir() || !strings.HasSuffix(name, ".html") || name == layout || strings.HasPrefix(name, "includes/") {
			return nil
		}
		page, err := template.Must(base.Clone()).ParseFS(files, path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Names lists the parsed page templates.
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	return names
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, layout, r.context(data, c)); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// context adds the values every page can use: the requester, the current
// year, the CSRF token and the request path.
func (r *Renderer) context(data interface{}, c echo.Context) map[string]interface{} {
	ctx := map[string]interface{}{}
	switch d := data.(type) {
	case echo.Map:
		for k, v := range d {
			ctx[k] = v
		}
	case map[string]interface{}:
		for k, v := range d {
			ctx[k] = v
		}
	case nil:
	default:
		ctx["data"] = d
	}

	ctx["year"] = r.now().Year()
	if c != nil {
		ctx["user"] = middleware.CurrentUser(c)
		ctx["csrf"], _ = c.Get("csrf").(string)
		ctx["request_path"] = c.Request().URL.Path
	}
	return ctx
}

func funcs(media func(string) string) template.FuncMap {
	return template.FuncMap{
		"media": media,
		"date": func(t time.Time) string {
			return t.Format("2 January 2006")
		},
		"linebreaks": func(s string) template.HTML {
			lines := strings.Split(template.HTMLEscapeString(s), "\n")
			return template.HTML(strings.Join(lines, "<br>"))
		},
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
		"page":        urls.Page,
		"groupURL":    urls.Group,
		"profileURL":  urls.Profile,
		"postURL":     urls.Post,
		"editURL":     urls.PostEdit,
		"deleteURL":   urls.PostDelete,
		"commentURL":  urls.Comment,
		"followURL":   urls.Follow,
		"unfollowURL": urls.Unfollow,
	}
}
