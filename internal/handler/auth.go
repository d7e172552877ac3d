package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-desk/internal/middleware"
	"github.com/iliyamo/contact-desk/internal/repository"
	"github.com/iliyamo/contact-desk/internal/utils"
	"github.com/iliyamo/contact-desk/internal/view"
)

const (
	msgUsernameTaken = "Username already taken."
	msgBadLogin      = "Invalid username or password."
)

// AuthHandler bundles dependencies for the register, login and logout pages.
type AuthHandler struct {
	Users      *repository.UserRepo
	Tokens     *utils.TokenService
	BcryptCost int
	Log        *slog.Logger
}

func NewAuthHandler(u *repository.UserRepo, t *utils.TokenService, bcryptCost int, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Users: u, Tokens: t, BcryptCost: bcryptCost, Log: log}
}

type RegisterForm struct {
	Username string `form:"username" validate:"min=3,max=150"`
	Password string `form:"password" validate:"min=6,max=72"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// RegisterForm renders the empty registration form.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return render(c, view.Register, newPage(c, "Register"))
}

// Register creates an account and sends the visitor to the login page.
// Every rejection re-renders the form with the username kept.
func (h *AuthHandler) Register(c echo.Context) error {
	const op = "handler.AuthHandler.Register"

	var f RegisterForm
	if err := c.Bind(&f); err != nil {
		return h.registerError(c, f, "Please check the form and try again.")
	}
	if err := c.Validate(&f); err != nil {
		return h.registerError(c, f, inlineError(err))
	}
	// validator counts runes, bcrypt counts bytes
	if len(f.Password) > utils.MaxPasswordBytes {
		return h.registerError(c, f, fieldMessages["RegisterForm.Password"])
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	log := h.Log.With(slog.String("op", op), slog.String("username", f.Username))

	_, err := h.Users.GetByUsername(ctx, f.Username)
	switch {
	case err == nil:
		log.Info("registration rejected: username taken")
		return h.registerError(c, f, msgUsernameTaken)
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, err)
	}

	hash, err := utils.HashPassword(f.Password, h.BcryptCost)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := h.Users.Create(ctx, f.Username, hash); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			log.Info("registration rejected: lost insert race")
			return h.registerError(c, f, msgUsernameTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered")
	return redirect(c, middleware.LoginPath)
}

func (h *AuthHandler) registerError(c echo.Context, f RegisterForm, msg string) error {
	p := newPage(c, "Register")
	p.Error = msg
	p.Form = map[string]string{"username": f.Username}
	return render(c, view.Register, p)
}

// LoginForm renders the empty login form.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return render(c, view.Login, newPage(c, "Log in"))
}

// Login checks the credentials and sets the session cookie.  An unknown user
// and a wrong password produce the same page; only the log tells them apart.
func (h *AuthHandler) Login(c echo.Context) error {
	const op = "handler.AuthHandler.Login"

	var f LoginForm
	if err := c.Bind(&f); err != nil {
		return h.loginError(c, f, msgBadLogin)
	}
	if err := c.Validate(&f); err != nil {
		return h.loginError(c, f, msgBadLogin)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	log := h.Log.With(slog.String("op", op), slog.String("username", f.Username))

	u, err := h.Users.GetByUsername(ctx, f.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("login failed: unknown user")
			return h.loginError(c, f, msgBadLogin)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, f.Password) {
		log.Info("login failed: wrong password")
		return h.loginError(c, f, msgBadLogin)
	}

	tok, err := h.Tokens.Issue(u.Username)
	if err != nil {
		return fmt.Errorf("%s: issue token: %w", op, err)
	}
	middleware.SetSessionCookie(c, tok.Token)

	log.Info("user logged in", slog.Time("expires", tok.Exp))
	return redirect(c, "/")
}

func (h *AuthHandler) loginError(c echo.Context, f LoginForm, msg string) error {
	p := newPage(c, "Log in")
	p.Error = msg
	p.Form = map[string]string{"username": f.Username}
	return render(c, view.Login, p)
}

// Logout drops the session cookie.  Calling it without a session is fine.
func (h *AuthHandler) Logout(c echo.Context) error {
	middleware.ClearSessionCookie(c)
	if user, ok := middleware.CurrentUser(c); ok {
		h.Log.Info("user logged out", slog.String("username", user))
	}
	return redirect(c, "/")
}
