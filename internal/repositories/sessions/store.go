package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists opaque session tokens. Implementations must guarantee a
// token is never returned by Lookup after its TTL has elapsed.
type Store interface {
	// Save records token → userID plus the reverse mapping used to enforce a
	// single active session per user.
	Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	// Lookup resolves a token; returns common.ErrNotFound for unknown or
	// expired tokens.
	Lookup(ctx context.Context, token string) (uuid.UUID, error)
	Delete(ctx context.Context, token string) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}
