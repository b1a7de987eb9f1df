package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunConfig carries the mailgun credentials and sender address.
type MailgunConfig struct {
	Domain string
	APIKey string
	From   string
}

// MailgunMailer sends through the Mailgun API.
type MailgunMailer struct {
	mg   *mailgun.MailgunImpl
	from string
}

func NewMailgunMailer(cfg MailgunConfig) (*MailgunMailer, error) {
	if cfg.Domain == "" || cfg.APIKey == "" || cfg.From == "" {
		return nil, errors.New("mail: incomplete mailgun configuration")
	}

	return &MailgunMailer{
		mg:   mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		from: cfg.From,
	}, nil
}

func (m *MailgunMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Reset token: %s\n\n"+
			"The token expires shortly. If you did not request this, ignore this email.",
		token,
	)

	msg := m.mg.NewMessage(m.from, "Password reset", body, to)

	if _, _, err := m.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("mail: send password reset: %w", err)
	}
	return nil
}
