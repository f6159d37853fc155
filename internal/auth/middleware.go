package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/travel-quote-planner/backend/internal/models"
)

const (
	ContextUserIDKey = "user_id"
	ContextViewerKey = "viewer"
)

// JWTMiddleware проверяет access-токен и сохраняет user_id и viewer в контексте.
func JWTMiddleware(manager *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := manager.ParseAccessToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			c.Set(ContextUserIDKey, userID)
			c.Set(ContextViewerKey, models.Viewer{
				Username: claims.Username,
				Role:     models.ParseRole(string(claims.Role)),
			})
			return next(c)
		}
	}
}

// RequireSuperAdmin пропускает только супер-администраторов.
func RequireSuperAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			viewer, ok := ViewerFromContext(c)
			if !ok || viewer.Role != models.RoleSuperAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "super admin access required")
			}
			return next(c)
		}
	}
}

// UserIDFromContext извлекает идентификатор пользователя из контекста.
func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(ContextUserIDKey)
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// ViewerFromContext извлекает представление пользователя для движка из контекста.
func ViewerFromContext(c echo.Context) (models.Viewer, bool) {
	value := c.Get(ContextViewerKey)
	viewer, ok := value.(models.Viewer)
	return viewer, ok
}
