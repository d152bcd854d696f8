// Package mailer provides outbound SMTP delivery for administrator
// notifications. The transport is treated as an external collaborator: the
// service only needs a "send mail" capability, gated on configuration.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/campuspathway/leads-api/config"
)

// Sender sends a plain-text email to a single recipient.
type Sender interface {
	Send(to, subject, body string) error
	Enabled() bool
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer creates a mailer from the mail transport configuration.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Enabled reports whether the transport is fully configured.
func (m *SMTPMailer) Enabled() bool {
	return m.cfg.Enabled()
}

// Send delivers a plain-text message. It blocks for the duration of the SMTP
// exchange; callers decide whether that happens on the request path.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("mail transport not configured")
	}

	from := m.cfg.Sender()
	msg := buildMessage(from, to, subject, body)

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	if err := smtp.SendMail(addr, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildMessage assembles RFC 5322 headers and body with CRLF line endings.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
