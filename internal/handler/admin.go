package handler

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-desk/internal/repository"
	"github.com/iliyamo/contact-desk/internal/view"
)

// AdminHandler lists submitted messages.  It is mounted behind RequireLogin.
type AdminHandler struct {
	Store repository.MessageStore
}

func NewAdminHandler(m repository.MessageStore) *AdminHandler {
	return &AdminHandler{Store: m}
}

func (h *AdminHandler) Messages(c echo.Context) error {
	const op = "handler.AdminHandler.Messages"

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	msgs, err := h.Store.ListNewestFirst(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p := newPage(c, "Messages")
	p.Messages = msgs
	return render(c, view.Admin, p)
}
