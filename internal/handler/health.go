package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-desk/internal/logging"
)

// HealthHandler backs /healthz for load balancers and monitoring.
type HealthHandler struct {
	DB  *sql.DB
	Log *slog.Logger
}

// Health answers "ok" when the database responds within 2s and
// "unavailable" with a 503 otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		h.Log.Warn("health check failed", logging.Err(err))
		return c.String(http.StatusServiceUnavailable, "unavailable")
	}
	return c.String(http.StatusOK, "ok")
}
