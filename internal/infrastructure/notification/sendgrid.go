package notification

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridNotifier sends email through the SendGrid v3 API
type SendGridNotifier struct {
	client   *sendgrid.Client
	fromName string
	from     string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string) (*SendGridNotifier, error) {
	if apiKey == "" || fromEmail == "" {
		return nil, errors.New("sendgrid api key and sender address are required")
	}
	return &SendGridNotifier{
		client:   sendgrid.NewSendClient(apiKey),
		from:     fromEmail,
		fromName: fromName,
	}, nil
}

func (n *SendGridNotifier) Notify(ctx context.Context, msg Message) error {
	email := mail.NewSingleEmail(
		mail.NewEmail(n.fromName, n.from),
		msg.Subject,
		mail.NewEmail(msg.ToName, msg.ToEmail),
		msg.Body,
		toHTML(msg.Body),
	)

	resp, err := n.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected email: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func toHTML(text string) string {
	return "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>") + "</p>"
}
