package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/alumni-hub/backend/internal/kv"
	"github.com/alumni-hub/backend/internal/models"
)

// DefaultSessionTTL is used when no explicit policy is configured.
const DefaultSessionTTL = 24 * time.Hour

// ErrNoSession indicates the token does not resolve to a live session.
var ErrNoSession = errors.New("auth: no session for token")

// SessionStore maps opaque bearer tokens to session records in the KV
// store. Tokens are UUIDv4 strings (122 bits of CSPRNG entropy), so a
// fresh token never collides with a live one. Expiry is a store-level
// policy checked at Resolve; a zero TTL disables it and sessions then
// live until revoked.
type SessionStore struct {
	store kv.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionStore creates a session manager over the given store.
func NewSessionStore(store kv.Store, ttl time.Duration) *SessionStore {
	return &SessionStore{store: store, ttl: ttl, now: time.Now}
}

// Issue stores a session record for the user and returns its token.
func (s *SessionStore) Issue(ctx context.Context, user models.PublicUser) (string, error) {
	token := uuid.New().String()
	sess := models.Session{User: user, IssuedAt: s.now()}
	if err := s.store.Set(ctx, models.SessionKeyPrefix+token, sess); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the session user for a token. Expired sessions are
// revoked on the spot and reported as ErrNoSession.
func (s *SessionStore) Resolve(ctx context.Context, token string) (models.PublicUser, error) {
	sess, err := kv.GetAs[models.Session](ctx, s.store, models.SessionKeyPrefix+token)
	if errors.Is(err, kv.ErrNotFound) {
		return models.PublicUser{}, ErrNoSession
	}
	if err != nil {
		return models.PublicUser{}, err
	}

	if s.ttl > 0 && s.now().Sub(sess.IssuedAt) > s.ttl {
		_ = s.store.Delete(ctx, models.SessionKeyPrefix+token)
		return models.PublicUser{}, ErrNoSession
	}
	return sess.User, nil
}

// Refresh overwrites the user view at an existing token, keeping the
// original issuance time. A missing token is a silent no-op so a
// concurrent logout cannot resurrect the session.
func (s *SessionStore) Refresh(ctx context.Context, token string, user models.PublicUser) error {
	sess, err := kv.GetAs[models.Session](ctx, s.store, models.SessionKeyPrefix+token)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	sess.User = user
	return s.store.Set(ctx, models.SessionKeyPrefix+token, sess)
}

// Revoke deletes the session for a token; absent tokens are a no-op.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	return s.store.Delete(ctx, models.SessionKeyPrefix+token)
}
