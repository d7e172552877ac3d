// Package middleware holds the session extraction and login gate used by every page.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-desk/internal/logging"
	"github.com/iliyamo/contact-desk/internal/utils"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "access_token"

// TokenVerifier resolves a raw token to its subject.  utils.TokenService
// implements it.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// UserFromRequest resolves the session cookie of r to a username.  With no
// cookie it returns ("", nil): anonymous browsing is a normal state.  With a
// cookie that fails verification it returns ("", err) where err is
// utils.ErrTokenExpired or utils.ErrTokenInvalid.
func UserFromRequest(r *http.Request, tokens TokenVerifier) (string, error) {
	ck, err := r.Cookie(SessionCookieName)
	if err != nil || ck.Value == "" {
		return "", nil
	}
	return tokens.Verify(ck.Value)
}

// Session returns an Echo middleware that puts the authenticated username in
// the context under "username".
//
// Policy: any token failure degrades to anonymous.  The request is never
// rejected here; pages that need a user sit behind RequireLogin, public pages
// simply render the logged-out view.  Expired and invalid tokens are logged
// at different levels so they stay distinguishable.
func Session(tokens TokenVerifier, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, err := UserFromRequest(c.Request(), tokens)
			switch {
			case err == nil && username != "":
				c.Set(usernameKey, username)
			case errors.Is(err, utils.ErrTokenExpired):
				log.Debug("session token expired", slog.String("path", c.Path()))
			case err != nil:
				log.Warn("session token rejected", slog.String("path", c.Path()), logging.Err(err))
			}
			return next(c)
		}
	}
}

// SetSessionCookie stores token in an HTTP-only, SameSite=Lax cookie that
// lives for the browser session; expiry is enforced by the token itself.
func SetSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie.  Safe to
// call when no cookie is set.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
