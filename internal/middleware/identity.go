package middleware

import "github.com/labstack/echo/v4"

const usernameKey = "username"

// CurrentUser returns the username stored by Session, if any.
func CurrentUser(c echo.Context) (string, bool) {
	u, ok := c.Get(usernameKey).(string)
	if !ok || u == "" {
		return "", false
	}
	return u, true
}
