package mail

import (
	"context"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/logging"
)

// LogMailer implements ports.Mailer by writing messages to the log instead of sending them.
type LogMailer struct {
	log logging.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs msg at info level.
func (m *LogMailer) Send(ctx context.Context, msg entities.MailMessage) error {
	m.log.Info(ctx, "mail",
		"module", msg.Module,
		"key", msg.Key,
		"to", msg.To,
		"langcode", msg.LangCode,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
