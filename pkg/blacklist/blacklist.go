package blacklist

import (
	"context"
	"time"
)

// Store keeps identifiers of revoked tokens until their natural expiry.
// Revoke should use ttl so entries disappear once the token would have
// expired anyway.
type Store interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
