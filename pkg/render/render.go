package render

import (
	"fmt"
	"html/template"
	"io"

	"medsynq/web"

	"github.com/labstack/echo/v4"
)

// TemplateRenderer implements echo.Renderer over the embedded HTML templates.
type TemplateRenderer struct {
	templates *template.Template
}

// New parses the embedded template set.
func New() (*TemplateRenderer, error) {
	templates, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateRenderer{templates: templates}, nil
}

// Render renders a template by file name with the given data.
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
