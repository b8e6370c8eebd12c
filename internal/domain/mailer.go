package domain

import "context"

// Message is an assembled contact-form message addressed to a post author.
type Message struct {
	To      string
	From    string
	Sender  string
	Subject string
	Body    string
}

// Mailer abstracts outbound message delivery.
// The application only validates and assembles messages; actual dispatch
// belongs to an external service behind this interface.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
