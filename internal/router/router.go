// Package router builds the Echo instance: middleware stack, renderer,
// validator and the page routes.
package router

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/contact-desk/internal/handler"
	"github.com/iliyamo/contact-desk/internal/logging"
	"github.com/iliyamo/contact-desk/internal/middleware"
	"github.com/iliyamo/contact-desk/internal/repository"
	"github.com/iliyamo/contact-desk/internal/utils"
	"github.com/iliyamo/contact-desk/internal/view"
)

// Deps carries everything the handlers need.  Events may be nil.
type Deps struct {
	Log        *slog.Logger
	DB         *sql.DB
	Users      *repository.UserRepo
	Messages   repository.MessageStore
	Tokens     *utils.TokenService
	BcryptCost int
	Events     handler.ContactPublisher
}

// New returns a ready-to-serve Echo instance.
func New(d Deps) (*echo.Echo, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewFormValidator()
	e.HTTPErrorHandler = errorHandler(d.Log)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomw.Recover())
	e.Use(middleware.Session(d.Tokens, d.Log))

	RegisterRoutes(e, d)
	return e, nil
}

// RegisterRoutes maps every page to its handler.
func RegisterRoutes(e *echo.Echo, d Deps) {
	health := &handler.HealthHandler{DB: d.DB, Log: d.Log}
	e.GET("/healthz", health.Health)

	var home handler.HomeHandler
	e.GET("/", home.Home)

	auth := handler.NewAuthHandler(d.Users, d.Tokens, d.BcryptCost, d.Log)
	e.GET("/register", auth.RegisterForm)
	e.POST("/register", auth.Register)
	e.GET("/login", auth.LoginForm)
	e.POST("/login", auth.Login)
	e.GET("/logout", auth.Logout)

	contact := handler.NewContactHandler(d.Messages, d.Events, d.Log)
	e.GET("/contact", contact.ContactForm)
	e.POST("/contact", contact.Submit)

	admin := handler.NewAdminHandler(d.Messages)
	e.GET("/admin", admin.Messages, middleware.RequireLogin())
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}

// errorHandler keeps Echo's own HTTP errors (404, 405) and turns anything
// else into a logged, generic 500.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		} else {
			log.Error("request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				logging.Err(err),
			)
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.String(code, http.StatusText(code))
	}
}
