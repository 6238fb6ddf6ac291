package email

import (
	"context"

	"github.com/rs/zerolog/log"
	"gopkg.in/mail.v2"
)

// Client sends plain-text mail through an SMTP relay.
type Client struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
}

func NewClient(smtpHost string, smtpPort int, username, password, from string) *Client {
	return &Client{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		username: username,
		password: password,
		from:     from,
	}
}

func (c *Client) Message(to, subject, body string) *mail.Message {
	message := mail.NewMessage()

	message.SetHeader("From", c.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)

	message.SetBody("text/plain", body)

	return message
}

func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dialer := mail.NewDialer(c.smtpHost, c.smtpPort, c.username, c.password)
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Timeout = timeUntil(deadline)
	}

	return dialer.DialAndSend(c.Message(to, subject, body))
}

// LogMailer stands in when SMTP is not configured; it only logs.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	log.Info().Str("to", to).Str("subject", subject).Msg("smtp not configured, email skipped")
	return nil
}
