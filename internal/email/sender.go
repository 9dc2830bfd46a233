// Package email sends outbound mail over SMTP. Delivery is always a
// best-effort side effect; no state transition depends on it.
package email

import (
	"context"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/internal/config"

	"github.com/wneessen/go-mail"
)

// Sender delivers a single HTML mail.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SMTPSender sends through a configured SMTP relay.
type SMTPSender struct {
	cfg *config.Config
}

// NewSMTPSender returns a sender for the configured relay, or nil when no
// SMTP host is configured. Callers treat a nil sender as "mail disabled".
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.EmailFromName, s.cfg.EmailFromAddress); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	opts := []mail.Option{
		mail.WithPort(s.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.SMTPUsername),
		mail.WithPassword(s.cfg.SMTPPassword),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	client, err := mail.NewClient(s.cfg.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer client.Close()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

var _ Sender = (*SMTPSender)(nil)
