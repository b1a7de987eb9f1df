// Package mail delivers outbound auth email. Only the password-reset flow
// sends mail today.
package mail

import "context"

// Mailer sends auth-related email. Implementations must not block past the
// caller's context.
type Mailer interface {
	// SendPasswordReset mails the reset token to the given address.
	SendPasswordReset(ctx context.Context, to, token string) error
}
