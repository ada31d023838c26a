// Package ports defines interfaces for external service communication.
package ports

import (
	"context"
	"time"

	"github.com/ersonp/record-tracker/internal/domain/entities"
)

// Renderer turns a notification payload into a mail body.
type Renderer interface {
	Render(ctx context.Context, n entities.Notification) (string, error)
}

// Mailer delivers a single message. Retries and timeouts are its own concern.
type Mailer interface {
	Send(ctx context.Context, msg entities.MailMessage) error
}

// SiteConfig exposes the site settings a notification needs.
type SiteConfig interface {
	// SiteMail returns the administrative address notifications go to.
	SiteMail() string

	// CurrentLanguage returns the active language code, e.g. "en".
	CurrentLanguage() string
}

// Translator translates interface strings into a language.
type Translator interface {
	// Translate formats key for langcode, substituting args positionally.
	Translate(langcode, key string, args ...any) string
}

// DateFormatter renders timestamps in a named style such as "short".
type DateFormatter interface {
	Format(t time.Time, style string) string
}

// Summarizer writes a short prose summary of a diff.
type Summarizer interface {
	Summarize(ctx context.Context, n entities.Notification) (string, error)
}
