package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-desk/internal/view"
)

type HomeHandler struct{}

// Home renders the landing page for the current user, or for nobody.
func (HomeHandler) Home(c echo.Context) error {
	return render(c, view.Home, newPage(c, "Home"))
}
