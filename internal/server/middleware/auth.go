package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/nteract/mythic-rtc/internal/server/jwt"
	"github.com/nteract/mythic-rtc/internal/server/service"
)

// AuthMiddleware создает middleware для проверки токена сессии.
// Сессия из токена кладется в контекст запроса.
func AuthMiddleware(logger *slog.Logger, tokens *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("Invalid Authorization header format")
				http.Error(w, "Unauthorized: invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				logger.Warn("Invalid session token", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			ctx := service.WithSession(r.Context(), service.Session{
				ID:       claims.ID,
				FilePath: claims.FilePath,
			})

			logger.Debug("Session authenticated", "session_id", claims.ID, "file_path", claims.FilePath)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
