package mailer

import (
	"context"

	"github.com/diagnosis/dalmatia-stays/pkg/logger"
)

type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(ctx context.Context, msg Message) error {
	logger.InfoContext(ctx, "[DEV MAIL] "+msg.Subject,
		"to", msg.ToEmail,
		"name", msg.ToName,
		"body", msg.Text,
	)
	return nil
}
