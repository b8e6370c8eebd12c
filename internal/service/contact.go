package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/mverner/inkwell/internal/domain"
)

// ContactService assembles contact-form messages addressed to post authors
// and hands them to a Mailer for delivery.
type ContactService struct {
	users  domain.UserRepository
	mailer domain.Mailer
}

// NewContactService creates a new ContactService.
func NewContactService(users domain.UserRepository, mailer domain.Mailer) *ContactService {
	return &ContactService{users: users, mailer: mailer}
}

// Prepare resolves the recipient by id and pre-fills a message from the
// sender's identity. An unknown recipient id is domain.ErrNotFound.
func (s *ContactService) Prepare(ctx context.Context, sender *domain.User, recipientID int64, subject string) (domain.Message, error) {
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		To:      recipient.Email,
		From:    sender.Email,
		Sender:  sender.Name,
		Subject: subject,
	}, nil
}

// Send validates an assembled message and dispatches it through the Mailer.
func (s *ContactService) Send(ctx context.Context, msg domain.Message) error {
	if msg.Sender == "" || msg.Subject == "" || msg.Body == "" {
		return fmt.Errorf("%w: name, subject, and message are required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(msg.To); err != nil {
		return fmt.Errorf("%w: invalid recipient address", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(msg.From); err != nil {
		return fmt.Errorf("%w: invalid sender address", domain.ErrInvalidInput)
	}
	return s.mailer.Send(ctx, msg)
}

// LogMailer is the default Mailer. It records the message and performs no
// delivery; a real transport (SMTP, an email API) replaces it behind the
// domain.Mailer interface.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg domain.Message) error {
	slog.Info("contact message accepted, delivery not configured",
		"to", msg.To, "from", msg.From, "subject", msg.Subject)
	return nil
}
