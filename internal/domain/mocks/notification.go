// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ersonp/record-tracker/internal/domain/entities"
)

// Renderer is a mock implementation of ports.Renderer.
// With no Body configured it renders every change as "label: old -> new" lines.
type Renderer struct {
	Body string
	Err  error

	// Call tracking
	Rendered []entities.Notification
}

// Render returns the configured body or error.
func (m *Renderer) Render(_ context.Context, n entities.Notification) (string, error) {
	m.Rendered = append(m.Rendered, n)
	if m.Err != nil {
		return "", m.Err
	}
	if m.Body != "" {
		return m.Body, nil
	}
	var b strings.Builder
	for _, fd := range n.Diff.Fields() {
		for _, c := range fd.Values {
			fmt.Fprintf(&b, "%s: %s -> %s\n", fd.Label, c.Old, c.New)
		}
	}
	return b.String(), nil
}

// Mailer is a mock implementation of ports.Mailer.
type Mailer struct {
	Err  error
	Sent []entities.MailMessage
}

// Send records the message.
func (m *Mailer) Send(_ context.Context, msg entities.MailMessage) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// SiteConfig is a mock implementation of ports.SiteConfig.
type SiteConfig struct {
	Mail     string
	Language string
}

// SiteMail returns the configured address.
func (m *SiteConfig) SiteMail() string {
	return m.Mail
}

// CurrentLanguage returns the configured language.
func (m *SiteConfig) CurrentLanguage() string {
	return m.Language
}

// Translator is a mock implementation of ports.Translator that formats keys untranslated.
type Translator struct{}

// Translate formats key with args.
func (Translator) Translate(_ string, key string, args ...any) string {
	return fmt.Sprintf(key, args...)
}

// DateFormatter is a mock implementation of ports.DateFormatter using UTC layouts.
type DateFormatter struct{}

// Format renders t in UTC as "style:2006-01-02 15:04".
func (DateFormatter) Format(t time.Time, style string) string {
	return style + ":" + t.UTC().Format("2006-01-02 15:04")
}

// Summarizer is a mock implementation of ports.Summarizer.
type Summarizer struct {
	Summary string
	Err     error
	Calls   int
}

// Summarize returns the configured summary or error.
func (m *Summarizer) Summarize(_ context.Context, _ entities.Notification) (string, error) {
	m.Calls++
	return m.Summary, m.Err
}
