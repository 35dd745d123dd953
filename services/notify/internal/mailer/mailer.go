package mailer

import (
	"context"

	"github.com/diagnosis/dalmatia-stays/pkg/config"
)

type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the transport: dev mode logs, a MailerSend key sends through the
// API, anything else goes to SMTP.
func New(cfg config.EmailConfig) Sender {
	switch {
	case cfg.DevMode:
		return NewDevMailer()
	case cfg.MailerSendKey != "":
		return NewMailerSend(cfg.MailerSendKey, cfg.FromName, cfg.SMTPFrom)
	default:
		return NewSMTPMailer(cfg)
	}
}
