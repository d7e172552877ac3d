// Package view renders the HTML pages.  Templates are embedded in the binary
// and each page is composed with the shared layout.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-desk/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Render.
const (
	Home     = "home"
	Register = "register"
	Login    = "login"
	Contact  = "contact"
	Admin    = "admin"
)

// Page is the data context every view receives.
type Page struct {
	Title    string
	User     string            // current username, empty when anonymous
	Error    string            // inline form error
	Form     map[string]string // submitted values echoed back into the form
	Messages []model.Message
}

// Renderer implements echo.Renderer.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the layout and every page.
func New() (*Renderer, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{Home, Register, Login, Contact, Admin} {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the named page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
