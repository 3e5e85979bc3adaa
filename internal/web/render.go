package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = []string{"index.html", "signin.html", "signup.html", "dashboard.html"}

// TemplateRenderer renders one page template inside the shared layout.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

func newRenderer() *TemplateRenderer {
	r := &TemplateRenderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		r.templates[page] = template.Must(
			template.New(page).ParseFS(templatesFS, "templates/layout.html", "templates/"+page),
		)
	}
	return r
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := t.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
