// Package jwt issues and validates the bearer tokens of medfichas-server.
// The user_id claim is the ownership tag the row-level policy compares
// against the user_id column of every patient row.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Issuer значение claim iss
const Issuer = "medfichas"

// ErrInvalidToken возвращается для любого токена, не прошедшего проверку
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	gojwt.RegisteredClaims
}

// Service provides JWT token generation and validation
type Service struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// NewService creates a new JWT service.
// secret should be a cryptographically secure random string
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GenerateAccessToken signs a token for userID.
// Returns the token and its lifetime in seconds.
func (s *Service) GenerateAccessToken(userID string) (string, int64, error) {
	if userID == "" {
		return "", 0, fmt.Errorf("user id cannot be empty")
	}

	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, int64(s.ttl.Seconds()), nil
}

// ValidateAccessToken verifies the signature and expiry and returns the claims.
func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	parsed, err := gojwt.ParseWithClaims(token, &Claims{}, func(t *gojwt.Token) (any, error) {
		return s.secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(Issuer),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	// Токены без user_id принимаются по sub
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: no user id", ErrInvalidToken)
	}

	return claims, nil
}
