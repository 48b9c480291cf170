package mailer

import "context"

// Message is a plain-text email ready for delivery.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	Body      string
}

// Mailer delivers messages through a concrete provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
