// Package mailer sends plain-text notification emails. The worker depends
// on the Mailer interface so tests can substitute a fake and record sends.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/alxtravel/travel-booking-api/internal/config"
)

// Mailer delivers a plain-text email to a single recipient. Implementations
// may fail transiently; callers own the retry policy.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	addr string // host:port of the relay
	auth smtp.Auth
	from string
}

// NewSMTPMailer builds an SMTPMailer from configuration.
func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		addr: cfg.EmailHost + ":" + cfg.EmailPort,
		auth: smtp.PlainAuth("", cfg.EmailUser, cfg.EmailPassword, cfg.EmailHost),
		from: cfg.FromEmail,
	}
}

// Send composes an RFC 822 message and hands it to the relay.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// ConsoleMailer writes emails to the process log instead of delivering
// them. Used when no SMTP host is configured (development and tests).
type ConsoleMailer struct{}

// Send logs the message and always succeeds.
func (ConsoleMailer) Send(to, subject, body string) error {
	log.Printf("mail (console): to=%s subject=%q\n%s", to, subject, body)
	return nil
}

// FromConfig picks the SMTP backend when a host is configured and falls
// back to the console backend otherwise.
func FromConfig(cfg config.Config) Mailer {
	if cfg.EmailHost == "" {
		return ConsoleMailer{}
	}
	return NewSMTPMailer(cfg)
}
