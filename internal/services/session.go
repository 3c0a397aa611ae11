package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/sessions"
	"github.com/google/uuid"
)

// SessionDuration is 24 hours: a token issued at login stops validating a
// day later no matter what.
const SessionDuration = 24 * time.Hour

// SessionManager issues and validates opaque bearer tokens. The store is
// injected so tests can run against an in-memory fake.
type SessionManager struct {
	store sessions.Store
	ttl   time.Duration
}

func NewSessionManager(store sessions.Store) *SessionManager {
	return &SessionManager{store: store, ttl: SessionDuration}
}

// Issue creates a new session for a user. Any existing session for the same
// user is invalidated first, so the 24-hour timer always restarts at login.
func (m *SessionManager) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	if err := m.store.DeleteAllForUser(ctx, userID); err != nil {
		return "", err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	if err := m.store.Save(ctx, token, userID, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Validate resolves a token to its owning user. Unknown, expired, and
// malformed tokens all come back as ErrNotAuthenticated — callers never learn
// which; store failures fail closed the same way.
func (m *SessionManager) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrNotAuthenticated
	}

	userID, err := m.store.Lookup(ctx, token)
	if err != nil {
		return uuid.Nil, ErrNotAuthenticated
	}
	return userID, nil
}

// Revoke invalidates a single token (logout).
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

// RevokeAll invalidates every session a user holds (password change, data
// clear).
func (m *SessionManager) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return m.store.DeleteAllForUser(ctx, userID)
}
