package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iudanet/medfichas/internal/server/handlers"
	"github.com/iudanet/medfichas/pkg/api"
)

// RecoveryMiddleware создает middleware для восстановления после паники.
// Клиент получает 500 без деталей, стек уходит в лог.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				// Отмена клиентом не ошибка сервера
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logger.Error("Panic recovered",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				handlers.WriteError(w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
