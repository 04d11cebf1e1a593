package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/medfichas/internal/server/handlers"
	"github.com/iudanet/medfichas/internal/server/jwt"
	"github.com/iudanet/medfichas/pkg/api"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware создает middleware для проверки JWT токена.
// user_id из токена кладется в контекст, handlers ограничивают им видимость строк.
func AuthMiddleware(logger *slog.Logger, validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				unauthorized(w, "missing token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				// Сам заголовок не логируем, в нем может быть токен
				logger.Warn("Invalid Authorization header format", "path", r.URL.Path)
				unauthorized(w, "invalid token format")
				return
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				unauthorized(w, "invalid token")
				return
			}

			logger.Debug("User authenticated", "user_id", claims.UserID)
			next.ServeHTTP(w, r.WithContext(handlers.WithUserID(r.Context(), claims.UserID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="medfichas"`)
	handlers.WriteError(w, http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized", Message: message})
}
