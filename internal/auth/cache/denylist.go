// Package cache holds the shared token denylist. Logged-out tokens live here
// until their natural expiry; entry TTLs are never longer than the token's
// own remaining lifetime, so the denylist cannot grow without bound.
package cache

import (
	"context"
	"time"
)

// Denylist is the revocation store consulted on every access-token
// resolution. Implementations must be safe for concurrent use and, when the
// service runs with more than one process, shared across all of them.
type Denylist interface {
	// Revoke blacklists a token for ttl. It is idempotent: revoking an
	// already-revoked token succeeds. A ttl <= 0 is a successful no-op
	// since the token is already unusable on expiry grounds alone.
	Revoke(ctx context.Context, token string, ttl time.Duration) error

	// IsRevoked reports whether the token is currently blacklisted.
	// An I/O failure is returned as an error, never as "not revoked".
	IsRevoked(ctx context.Context, token string) (bool, error)
}
