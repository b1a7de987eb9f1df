package mail

import (
	"context"

	"github.com/pixelbay/photoshare/pkg/slogx"
)

// LogMailer writes reset tokens to the log instead of sending email. Dev and
// test use only; never configure this in prod, the token is the credential.
type LogMailer struct{}

func NewLogMailer() *LogMailer { return &LogMailer{} }

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	slogx.FromContext(ctx).Info("password reset mail (dev mode)",
		"to", to,
		"token", token,
	)
	return nil
}
