package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/diagnosis/dalmatia-stays/pkg/config"
	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPMailer works against authenticated relays and against local catchers
// such as Mailpit, which need neither credentials nor TLS.
func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(strings.TrimSpace(cfg.SMTPHost), cfg.SMTPPort, strings.TrimSpace(cfg.SMTPUser), cfg.SMTPPass),
		from:     strings.TrimSpace(cfg.SMTPFrom),
		fromName: cfg.FromName,
	}
}

func (s *SMTPMailer) Send(_ context.Context, msg Message) error {
	to := strings.TrimSpace(msg.ToEmail)
	if to == "" {
		return fmt.Errorf("empty recipient email")
	}

	m := s.compose(to, msg)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPMailer) compose(to string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetAddressHeader("To", to, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	return m
}
