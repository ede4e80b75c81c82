// File: internal/view/view.go

// Package view renders the server-side HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"strconv"
	"strings"

	"house-admin/internal/form"
	"house-admin/internal/middleware"

	"github.com/labstack/echo/v4"
)

//go:embed templates
var templateFS embed.FS

// Pages lists every renderable view name.
var Pages = []string{
	"index",
	"error",
	"auth/login",
	"admin/houses/index",
	"admin/houses/show",
	"admin/houses/register",
	"admin/houses/edit",
	"houses/index",
	"houses/show",
}

var funcs = template.FuncMap{
	"pageURL": pageURL,
	"errs":    fieldErrors,
}

// Renderer is an echo.Renderer over the embedded templates.
type Renderer struct {
	templates map[string]*template.Template
}

// New 將每個頁面與 layout、partials 一起解析
func New() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(Pages))}
	for _, name := range Pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys,
			"templates/layout.html",
			"templates/partials/*.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render executes view name. Map data gets the CSRF token and the current
// principal added under "csrf" and "principal".
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}
	m, ok := data.(echo.Map)
	if !ok {
		m = echo.Map{"data": data}
	}
	if c != nil {
		m["csrf"] = middleware.CSRFToken(c)
		m["csrfField"] = middleware.CSRFField
		if p := middleware.Principal(c); p != nil {
			m["principal"] = p
		}
	}
	return t.ExecuteTemplate(w, "layout", m)
}

// pageURL 組出分頁連結，keyword 非空時原樣帶上
func pageURL(base string, page, size int, sort, keyword string) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if sort != "" {
		q.Set("sort", sort)
	}
	if keyword != "" {
		q.Set("keyword", keyword)
	}
	return base + "?" + q.Encode()
}

func fieldErrors(errs any, field string) []string {
	e, ok := errs.(form.Errors)
	if !ok {
		return nil
	}
	return e.For(strings.TrimSpace(field))
}
