// Package handler contains the page handlers.  Every handler renders a
// view.Page or redirects; storage failures are returned to Echo's error
// handler.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-desk/internal/middleware"
	"github.com/iliyamo/contact-desk/internal/view"
)

// storeTimeout bounds each handler's database work.
const storeTimeout = 5 * time.Second

// newPage builds the data context for a page with the current user filled in.
func newPage(c echo.Context, title string) view.Page {
	user, _ := middleware.CurrentUser(c)
	return view.Page{Title: title, User: user}
}

func render(c echo.Context, name string, p view.Page) error {
	return c.Render(http.StatusOK, name, p)
}

func redirect(c echo.Context, path string) error {
	return c.Redirect(http.StatusSeeOther, path)
}
