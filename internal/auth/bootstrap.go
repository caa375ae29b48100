package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/alumni-hub/backend/internal/kv"
	"github.com/alumni-hub/backend/internal/models"
)

// Demo account credentials, documented in the README and the login
// screen of the companion UI.
const (
	DemoAdminEmail    = "admin@alumni.edu"
	DemoAdminPassword = "admin123"
	DemoUserEmail     = "user@alumni.edu"
	DemoUserPassword  = "user123"
)

// SeedDemoUsers creates the two demo accounts unless they already
// exist. It runs once at startup and is idempotent: pre-existing
// accounts are never overwritten, so profile edits survive restarts.
func SeedDemoUsers(ctx context.Context, store kv.Store) error {
	demos := []struct {
		user     models.User
		password string
	}{
		{
			user: models.User{
				ID:    "admin-1",
				Email: DemoAdminEmail,
				Name:  "Admin User",
				Role:  models.RoleAdmin,
				Class: "2010",
				Major: "Computer Science",
			},
			password: DemoAdminPassword,
		},
		{
			user: models.User{
				ID:    "user-1",
				Email: DemoUserEmail,
				Name:  "Regular User",
				Role:  models.RoleUser,
				Class: "2018",
				Major: "Business",
			},
			password: DemoUserPassword,
		},
	}

	for _, demo := range demos {
		key := models.UserKeyPrefix + demo.user.Email
		_, err := store.Get(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, kv.ErrNotFound) {
			return fmt.Errorf("check demo user %s: %w", demo.user.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(demo.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		demo.user.PasswordHash = string(hash)

		if err := store.Set(ctx, key, demo.user); err != nil {
			return fmt.Errorf("seed demo user %s: %w", demo.user.Email, err)
		}
	}
	return nil
}
