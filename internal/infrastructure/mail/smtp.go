// Package mail provides Mailer implementations.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/infrastructure/config"
)

// SMTPMailer implements ports.Mailer over SMTP.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer creates an SMTP mailer. No connection is made until Send.
func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	if cfg.From == "" {
		return nil, errors.New("mail.from is required for the smtp transport")
	}

	policy, err := tlsPolicy(cfg.TLS)
	if err != nil {
		return nil, err
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(policy),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// Send delivers msg as a plain-text mail.
func (m *SMTPMailer) Send(ctx context.Context, msg entities.MailMessage) error {
	out, err := buildMessage(m.from, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("sending mail to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(from string, msg entities.MailMessage) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("setting sender: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("setting recipient: %w", err)
	}
	out.Subject(msg.Subject)
	if msg.LangCode != "" {
		out.SetGenHeader(gomail.Header("Content-Language"), msg.LangCode)
	}
	out.SetGenHeader(gomail.Header("X-Mail-Key"), msg.Module+"_"+msg.Key)
	out.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return out, nil
}

func tlsPolicy(name string) (gomail.TLSPolicy, error) {
	switch strings.ToLower(name) {
	case "", "opportunistic":
		return gomail.TLSOpportunistic, nil
	case "mandatory":
		return gomail.TLSMandatory, nil
	case "none":
		return gomail.NoTLS, nil
	default:
		return gomail.NoTLS, fmt.Errorf("unknown tls policy %q", name)
	}
}
