package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// ErrDisabled is returned by a sender whose channel is switched off
var ErrDisabled = errors.New("delivery channel disabled")

// SESService is the subset of the SES client used for email
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Email is one outbound message
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EmailSender sends transactional email
type EmailSender interface {
	SendEmail(ctx context.Context, msg Email) error
	Enabled() bool
}

// Mailer sends email through SES
type Mailer struct {
	client  SESService
	from    string
	enabled bool
}

// NewMailer returns a Mailer. A nil client or enabled=false yields a
// Mailer that refuses every message with ErrDisabled.
func NewMailer(client SESService, from string, enabled bool) *Mailer {
	return &Mailer{client: client, from: from, enabled: enabled && client != nil}
}

// Enabled reports whether email goes out at all
func (m *Mailer) Enabled() bool {
	return m.enabled
}

// SendEmail sends msg through SES
func (m *Mailer) SendEmail(ctx context.Context, msg Email) error {
	if !m.enabled {
		return ErrDisabled
	}
	if msg.To == "" {
		return errors.New("email recipient is empty")
	}

	text := msg.Text
	if text == "" {
		text = msg.HTML
	}

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(text)},
				Html: &types.Content{Data: aws.String(msg.HTML)},
			},
		},
		Source: aws.String(m.from),
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}
