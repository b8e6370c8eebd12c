package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mverner/inkwell/internal/domain"
	"github.com/mverner/inkwell/internal/service"
	"github.com/mverner/inkwell/internal/view"
)

// ContactHandler handles the contact-an-author form.
type ContactHandler struct {
	contact  *service.ContactService
	renderer *view.Renderer
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contact *service.ContactService, renderer *view.Renderer) *ContactHandler {
	return &ContactHandler{contact: contact, renderer: renderer}
}

// HandleContactForm renders the form pre-filled from the sender's identity
// and the query parameters. A missing or malformed recipient id is a
// client error; an unknown one is 404.
// GET /contact?post_author_id=ID&post_subtitle=S (auth required)
func (h *ContactHandler) HandleContactForm(w http.ResponseWriter, r *http.Request) {
	msg, ok := h.prepare(w, r)
	if !ok {
		return
	}
	renderPage(h.renderer, w, r, "contact", map[string]any{
		"Form": map[string]string{
			"Name":    msg.Sender,
			"Email":   msg.From,
			"Subject": msg.Subject,
			"To":      msg.To,
		},
	})
}

// HandleContactSubmit validates the submission and hands the assembled
// message to the mailer, then returns to the form with a confirmation.
// POST /contact?post_author_id=ID&post_subtitle=S (auth required)
func (h *ContactHandler) HandleContactSubmit(w http.ResponseWriter, r *http.Request) {
	prefilled, ok := h.prepare(w, r)
	if !ok {
		return
	}

	msg := domain.Message{
		To:      prefilled.To,
		From:    r.FormValue("email"),
		Sender:  r.FormValue("name"),
		Subject: r.FormValue("subject"),
		Body:    r.FormValue("message"),
	}
	if err := h.contact.Send(r.Context(), msg); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			renderPage(h.renderer, w, r, "contact", map[string]any{
				"Flash": validationMessage(err),
				"Form": map[string]string{
					"Name":    msg.Sender,
					"Email":   msg.From,
					"Subject": msg.Subject,
					"To":      msg.To,
				},
			})
			return
		}
		slog.Error("send contact message", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "Your message has been passed along.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *ContactHandler) prepare(w http.ResponseWriter, r *http.Request) (domain.Message, bool) {
	recipientID, err := strconv.ParseInt(r.URL.Query().Get("post_author_id"), 10, 64)
	if err != nil {
		http.Error(w, "missing or invalid post_author_id", http.StatusBadRequest)
		return domain.Message{}, false
	}

	sender := UserFromContext(r.Context())
	msg, err := h.contact.Prepare(r.Context(), sender, recipientID, r.URL.Query().Get("post_subtitle"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return domain.Message{}, false
		}
		slog.Error("prepare contact message", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return domain.Message{}, false
	}
	return msg, true
}
