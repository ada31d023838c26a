package services

import (
	"context"
	"fmt"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/domain/ports"
	"github.com/ersonp/record-tracker/internal/logging"
)

// MailModule identifies the tracker as the sender of notification mails.
const MailModule = "record_tracker"

// SubjectKey is the translatable subject line of a change notification.
// Arguments are the subject label and the subject ID.
const SubjectKey = "%[1]s (%[2]s) was changed"

// NotifyResult describes what a notification cycle did.
type NotifyResult struct {
	Diff    entities.Diff
	Subject entities.Subject
	// Message is the mail handed to the mailer, nil when nothing changed.
	Message *entities.MailMessage
}

// Sent reports whether a mail was dispatched.
func (r *NotifyResult) Sent() bool {
	return r.Message != nil
}

// Notifier mails the site administrator a diff whenever a record changes.
type Notifier struct {
	diff       *DiffService
	renderer   ports.Renderer
	mailer     ports.Mailer
	site       ports.SiteConfig
	translator ports.Translator
	summarizer ports.Summarizer
	log        logging.Logger
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithSummarizer adds a prose summary to every notification.
func WithSummarizer(s ports.Summarizer) NotifierOption {
	return func(n *Notifier) {
		n.summarizer = s
	}
}

// WithNotifierLogger sets the notifier's logger.
func WithNotifierLogger(l logging.Logger) NotifierOption {
	return func(n *Notifier) {
		n.log = l
	}
}

// NewNotifier creates a new Notifier.
func NewNotifier(
	diff *DiffService,
	renderer ports.Renderer,
	mailer ports.Mailer,
	site ports.SiteConfig,
	translator ports.Translator,
	opts ...NotifierOption,
) *Notifier {
	n := &Notifier{
		diff:       diff,
		renderer:   renderer,
		mailer:     mailer,
		site:       site,
		translator: translator,
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NotifyIfChanged mails the changes between record and record.Original.
// It does nothing when there is no previous version or nothing changed.
func (n *Notifier) NotifyIfChanged(ctx context.Context, record *entities.Record) error {
	_, err := n.Notify(ctx, record)
	return err
}

// Notify is NotifyIfChanged returning what was computed and sent.
func (n *Notifier) Notify(ctx context.Context, record *entities.Record) (*NotifyResult, error) {
	result := &NotifyResult{}
	if record.Original == nil {
		n.log.Debug(ctx, "no previous version to compare", "record", record.Key())
		return result, nil
	}

	result.Diff = n.diff.Compute(ctx, record.Original, record)
	if result.Diff.IsEmpty() {
		return result, nil
	}

	subject, err := record.Subject()
	if err != nil {
		return result, fmt.Errorf("resolving subject of %s: %w", record.Key(), err)
	}
	result.Subject = subject

	notification := entities.Notification{
		SubjectID:    subject.ID,
		SubjectLabel: subject.Label,
		RecordType:   record.Type,
		RecordID:     record.ID,
		Diff:         result.Diff,
	}
	if n.summarizer != nil {
		summary, err := n.summarizer.Summarize(ctx, notification)
		if err != nil {
			n.log.Warn(ctx, "summarizing changes failed", "record", record.Key(), "error", err)
		} else {
			notification.Summary = summary
		}
	}

	body, err := n.renderer.Render(ctx, notification)
	if err != nil {
		return result, fmt.Errorf("rendering notification: %w", err)
	}

	langcode := n.site.CurrentLanguage()
	msg := entities.MailMessage{
		Module:   MailModule,
		Key:      entities.MailKey,
		To:       n.site.SiteMail(),
		LangCode: langcode,
		Subject:  n.translator.Translate(langcode, SubjectKey, subject.Label, subject.ID),
		Body:     body,
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		return result, fmt.Errorf("sending notification: %w", err)
	}
	result.Message = &msg

	n.log.Info(ctx, "change notification sent",
		"record", record.Key(),
		"subject", subject.ID,
		"fields", result.Diff.Len(),
		"to", msg.To,
	)
	return result, nil
}
