package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/medfichas/internal/client/storage"
	"github.com/iudanet/medfichas/internal/validation"
)

var (
	// ErrNotLoggedIn сессия отсутствует
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionExpired срок действия токена истек
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidToken токен не удалось разобрать
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the token claims the client reads.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ParseToken decodes the token claims without verifying the signature.
// The user id comes from the user_id claim, falling back to sub.
func ParseToken(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token cannot be empty", ErrInvalidToken)
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if err := validation.ValidateOwner(claims.UserID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return claims, nil
}

type service struct {
	storage storage.AuthStorage
	logger  *slog.Logger
	now     func() time.Time
}

// NewService создает новый сервис авторизации
func NewService(authStorage storage.AuthStorage, logger *slog.Logger) Service {
	return &service{
		storage: authStorage,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *service) Login(ctx context.Context, serverURL, token string) (*storage.AuthData, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("server url cannot be empty")
	}

	claims, err := ParseToken(token)
	if err != nil {
		return nil, err
	}

	auth := &storage.AuthData{
		AccessToken: strings.TrimSpace(token),
		UserID:      claims.UserID,
		ServerURL:   strings.TrimSuffix(serverURL, "/"),
	}
	if claims.ExpiresAt != nil {
		auth.ExpiresAt = claims.ExpiresAt.Unix()
		if !s.now().Before(claims.ExpiresAt.Time) {
			return nil, ErrSessionExpired
		}
	}

	if err := s.storage.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to save auth: %w", err)
	}

	s.logger.Info("Logged in", "user_id", auth.UserID, "server", auth.ServerURL)
	return auth, nil
}

func (s *service) Session(ctx context.Context) (*storage.AuthData, error) {
	auth, err := s.storage.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to get auth: %w", err)
	}

	if auth.ExpiresAt > 0 && s.now().Unix() >= auth.ExpiresAt {
		return nil, ErrSessionExpired
	}

	return auth, nil
}

func (s *service) Logout(ctx context.Context) error {
	if err := s.storage.DeleteAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete auth: %w", err)
	}
	s.logger.Info("Logged out")
	return nil
}

func (s *service) IsAuthenticated(ctx context.Context) (bool, error) {
	return s.storage.IsAuthenticated(ctx)
}
