// Package notify delivers outbound email. Workflows hand mail to a
// Dispatcher and carry on; delivery, retries and failures happen on the
// dispatcher's workers and never reach the caller.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mocks_test.go -package=notify . Sender

// Mail is one outbound message
type Mail struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a single mail
type Sender interface {
	Send(ctx context.Context, msg Mail) error
}

// SendGridSender delivers mail through the SendGrid v3 API
type SendGridSender struct {
	client *sendgrid.Client
}

// NewSendGridSender creates a sender for an API key
func NewSendGridSender(apiKey string) *SendGridSender {
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey)}
}

// Send submits the mail. Any non-2xx response is an error so the
// dispatcher can retry it.
func (s *SendGridSender) Send(ctx context.Context, m Mail) error {
	message := mail.NewSingleEmail(
		mail.NewEmail("", m.From),
		m.Subject,
		mail.NewEmail("", m.To),
		m.Text,
		m.HTML,
	)
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogSender only logs mail. It is used when no SendGrid key is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a new log-only sender
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the mail and reports success
func (s *LogSender) Send(_ context.Context, m Mail) error {
	s.logger.Info("mail not sent, no provider configured",
		zap.String("to", m.To),
		zap.String("from", m.From),
		zap.String("subject", m.Subject))
	return nil
}

// InviteMail builds the invitation sent to a user added to a team. The
// sender address is the team name without spaces at domain.
func InviteMail(teamName, inviterName, to, domain string) Mail {
	from := strings.Join(strings.Fields(teamName), "") + "@" + domain
	escapedTeam := html.EscapeString(teamName)
	escapedInviter := html.EscapeString(inviterName)

	return Mail{
		To:      to,
		From:    from,
		Subject: "You have been invited to " + teamName,
		Text:    fmt.Sprintf("You have been invited to %s by %s", teamName, inviterName),
		HTML: fmt.Sprintf("<h1>%s</h1><div><p>You have been invited to %s by %s</p></div>",
			escapedTeam, escapedTeam, escapedInviter),
	}
}
