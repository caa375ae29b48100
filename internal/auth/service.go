// Package auth implements login, signup, session management, and
// profile updates over the key-value store.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alumni-hub/backend/internal/kv"
	"github.com/alumni-hub/backend/internal/models"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password, so a login failure never reveals whether the account
	// exists.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrUserExists indicates a signup conflict on email.
	ErrUserExists = errors.New("auth: user already exists")

	// ErrUserNotFound indicates the backing user record is gone.
	ErrUserNotFound = errors.New("auth: user not found")
)

// Service implements the authentication operations over the KV store
// and the session manager.
type Service struct {
	store    kv.Store
	sessions *SessionStore
}

// NewService wires the auth service.
func NewService(store kv.Store, sessions *SessionStore) *Service {
	return &Service{store: store, sessions: sessions}
}

// Login checks credentials against the stored record and issues a
// session on success.
func (s *Service) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	user, err := kv.GetAs[models.User](ctx, s.store, models.UserKeyPrefix+email)
	if errors.Is(err, kv.ErrNotFound) {
		return models.AuthResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(ctx, user.Public())
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("issue session: %w", err)
	}
	return models.AuthResponse{User: user.Public(), Token: token}, nil
}

// Signup creates a new user with role "user" and logs it in. Uniqueness
// is a best-effort check-then-create: the KV store offers no
// compare-and-set, so two racing signups for one email resolve to
// last-writer-wins.
func (s *Service) Signup(ctx context.Context, email, password, name string) (models.AuthResponse, error) {
	_, err := s.store.Get(ctx, models.UserKeyPrefix+email)
	if err == nil {
		return models.AuthResponse{}, ErrUserExists
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return models.AuthResponse{}, fmt.Errorf("check user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         models.RoleUser,
	}
	if err := s.store.Set(ctx, models.UserKeyPrefix+email, user); err != nil {
		return models.AuthResponse{}, fmt.Errorf("store user: %w", err)
	}

	token, err := s.sessions.Issue(ctx, user.Public())
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("issue session: %w", err)
	}
	return models.AuthResponse{User: user.Public(), Token: token}, nil
}

// Verify resolves a bearer token to its session user.
func (s *Service) Verify(ctx context.Context, token string) (models.PublicUser, error) {
	return s.sessions.Resolve(ctx, token)
}

// UpdateProfile merges a patch onto the stored user record and refreshes
// the session so it never serves stale data. Email, role, and password
// are untouchable through this path.
func (s *Service) UpdateProfile(ctx context.Context, token string, patch models.ProfileUpdate) (models.PublicUser, error) {
	sessUser, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return models.PublicUser{}, err
	}

	user, err := kv.GetAs[models.User](ctx, s.store, models.UserKeyPrefix+sessUser.Email)
	if errors.Is(err, kv.ErrNotFound) {
		return models.PublicUser{}, ErrUserNotFound
	}
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("load user: %w", err)
	}

	patch.Apply(&user)
	if err := s.store.Set(ctx, models.UserKeyPrefix+user.Email, user); err != nil {
		return models.PublicUser{}, fmt.Errorf("store user: %w", err)
	}

	if err := s.sessions.Refresh(ctx, token, user.Public()); err != nil {
		return models.PublicUser{}, fmt.Errorf("refresh session: %w", err)
	}
	return user.Public(), nil
}

// Logout revokes the session for a token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}
