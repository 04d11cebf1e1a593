package auth

import (
	"context"

	"github.com/iudanet/medfichas/internal/client/storage"
)

//go:generate moq -out service_mock.go . Service

// Service manages the bearer session kept in the Local Store.
// The token is issued out of band (medfichas-server token) and is only
// decoded here, never verified: the server remains the authority.
type Service interface {
	// Login сохраняет токен для сервера и возвращает сессию
	Login(ctx context.Context, serverURL, token string) (*storage.AuthData, error)

	// Session возвращает текущую сессию или ErrNotLoggedIn / ErrSessionExpired
	Session(ctx context.Context) (*storage.AuthData, error)

	// Logout удаляет локальные данные авторизации
	Logout(ctx context.Context) error

	// IsAuthenticated checks if a non-expired session exists
	IsAuthenticated(ctx context.Context) (bool, error)
}
