package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers mail through the SendGrid v3 API.
type SendGridMailer struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

// NewSendGridMailer constructs a SendGrid-backed mailer.
func NewSendGridMailer(apiKey, fromName, fromAddr string) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		fromAddr: fromAddr,
	}
}

// Send delivers a single plain-text message.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	from := sgmail.NewEmail(m.fromName, m.fromAddr)
	to := sgmail.NewEmail(msg.ToName, msg.ToAddress)
	mail := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")

	resp, err := m.client.SendWithContext(ctx, mail)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
