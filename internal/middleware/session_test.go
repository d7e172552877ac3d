package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/contact-desk/internal/logging"
	"github.com/iliyamo/contact-desk/internal/utils"
)

func newEcho(tokens TokenVerifier, buf *bytes.Buffer) *echo.Echo {
	e := echo.New()
	e.Use(Session(tokens, logging.NewWithWriter(logging.EnvLocal, buf)))
	e.GET("/whoami", func(c echo.Context) error {
		if u, ok := CurrentUser(c); ok {
			return c.String(http.StatusOK, u)
		}
		return c.String(http.StatusOK, "anonymous")
	})
	e.GET("/private", func(c echo.Context) error { return c.String(http.StatusOK, "secret") }, RequireLogin())
	return e
}

func do(e *echo.Echo, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestUserFromRequest(t *testing.T) {
	svc := utils.NewTokenService("k", time.Hour)
	tok, err := svc.Issue("alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	u, err := UserFromRequest(req, svc)
	require.NoError(t, err)
	assert.Empty(t, u)

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok.Token})
	u, err = UserFromRequest(req, svc)
	require.NoError(t, err)
	assert.Equal(t, "alice", u)

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	_, err = UserFromRequest(bad, svc)
	require.ErrorIs(t, err, utils.ErrTokenInvalid)
}

func TestSession_FailsOpenToAnonymous(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := utils.NewTokenService("k", time.Minute).WithClock(func() time.Time { return now })
	tok, err := svc.Issue("alice")
	require.NoError(t, err)
	other, err := utils.NewTokenService("other", time.Minute).Issue("mallory")
	require.NoError(t, err)

	var buf bytes.Buffer
	e := newEcho(svc, &buf)

	rec := do(e, "/whoami", tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())

	rec = do(e, "/whoami", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	rec = do(e, "/whoami", other.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Contains(t, buf.String(), "session token rejected")

	now = now.Add(2 * time.Minute)
	buf.Reset()
	rec = do(e, "/whoami", tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Contains(t, buf.String(), "session token expired")
	assert.NotContains(t, buf.String(), "rejected")
}

func TestRequireLogin(t *testing.T) {
	svc := utils.NewTokenService("k", time.Hour)
	tok, err := svc.Issue("alice")
	require.NoError(t, err)
	e := newEcho(svc, &bytes.Buffer{})

	rec := do(e, "/private", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get(echo.HeaderLocation))

	rec = do(e, "/private", "tampered."+tok.Token)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(e, "/private", tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "secret", rec.Body.String())
}

func TestSessionCookies(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	SetSessionCookie(c, "tok")
	set := rec.Header().Values("Set-Cookie")
	require.Len(t, set, 1)
	assert.True(t, strings.HasPrefix(set[0], SessionCookieName+"=tok"))
	assert.Contains(t, set[0], "HttpOnly")
	assert.Contains(t, set[0], "SameSite=Lax")
	assert.NotContains(t, set[0], "Secure")
	assert.NotContains(t, set[0], "Max-Age")

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	ClearSessionCookie(c)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}
