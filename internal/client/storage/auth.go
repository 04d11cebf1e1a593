package storage

import (
	"context"
)

// AuthStorage defines interface for storing the bearer session on client
type AuthStorage interface {
	// SaveAuth stores authentication data
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored authentication data
	// Returns ErrAuthNotFound if no auth data exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored authentication data (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if valid authentication exists (not expired)
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData represents the stored bearer session.
// The token is kept sealed when the local store is encrypted.
type AuthData struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	ServerURL   string `json:"server_url"`
	ExpiresAt   int64  `json:"expires_at"` // ExpiresAt unix seconds, 0 = no expiry
}
