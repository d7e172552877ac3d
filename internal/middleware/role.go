package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LoginPath is where anonymous visitors of gated pages are sent.
const LoginPath = "/login"

// RequireLogin returns a middleware that lets the request through only when
// Session resolved a user.  Anonymous requests get a 303 to the login page,
// not a 403.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			return next(c)
		}
	}
}
