package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-desk/internal/logging"
	"github.com/iliyamo/contact-desk/internal/model"
	"github.com/iliyamo/contact-desk/internal/queue"
	"github.com/iliyamo/contact-desk/internal/repository"
	"github.com/iliyamo/contact-desk/internal/view"
)

// ContactPublisher is implemented by service.Publisher.
type ContactPublisher interface {
	PublishContactSubmitted(ctx context.Context, event queue.ContactSubmittedEvent) error
}

// ContactHandler serves the public contact form.  Events may be nil.
type ContactHandler struct {
	Messages repository.MessageStore
	Events   ContactPublisher
	Log      *slog.Logger
}

func NewContactHandler(m repository.MessageStore, events ContactPublisher, log *slog.Logger) *ContactHandler {
	return &ContactHandler{Messages: m, Events: events, Log: log}
}

type ContactForm struct {
	Name  string `form:"name" validate:"required"`
	Email string `form:"email" validate:"required"`
	Body  string `form:"message" validate:"required"`
}

func (h *ContactHandler) ContactForm(c echo.Context) error {
	return render(c, view.Contact, newPage(c, "Contact"))
}

// Submit stores the message and redirects back to the empty form.
func (h *ContactHandler) Submit(c echo.Context) error {
	const op = "handler.ContactHandler.Submit"

	var f ContactForm
	bindErr := c.Bind(&f)
	if bindErr == nil {
		bindErr = c.Validate(&f)
	}
	if bindErr != nil {
		p := newPage(c, "Contact")
		p.Error = inlineError(bindErr)
		p.Form = map[string]string{"name": f.Name, "email": f.Email, "message": f.Body}
		return render(c, view.Contact, p)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	id, err := h.Messages.Create(ctx, model.Message{Name: f.Name, Email: f.Email, Body: f.Body})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log := h.Log.With(slog.String("op", op), slog.Int64("message_id", id))
	log.Info("contact message stored")

	if h.Events != nil {
		ev := queue.ContactSubmittedEvent{
			MessageID:   id,
			Name:        f.Name,
			Email:       f.Email,
			Body:        f.Body,
			SubmittedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Events.PublishContactSubmitted(ctx, ev); err != nil {
			log.Warn("contact event not published", logging.Err(err))
		}
	}
	return redirect(c, "/contact")
}
