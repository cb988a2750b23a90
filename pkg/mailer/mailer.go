// Package mailer sends outbound notification mail over SMTP. Delivery is
// best-effort: callers fire it from a goroutine and only log failures.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer is the outbound-mail contract the notification hook depends on.
type Mailer interface {
	Send(to, subject, htmlBody string) error
	IsConfigured() bool
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer builds an SMTP-backed Mailer. An empty username or password
// leaves the mailer unconfigured; sends then fail fast without dialing out.
func NewSMTPMailer(host string, port int, username, password, from string) Mailer {
	return &smtpMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *smtpMailer) IsConfigured() bool {
	return m.username != "" && m.password != ""
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	if !m.IsConfigured() {
		return fmt.Errorf("smtp not configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}
