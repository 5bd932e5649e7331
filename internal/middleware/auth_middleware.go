package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skykeen/events-backend/internal/app/models/dto"
	"github.com/skykeen/events-backend/internal/app/services"
	"github.com/skykeen/events-backend/internal/pkg/apperrors"
)

// Context keys set by SessionAuth for downstream handlers.
const (
	ContextUserIDKey       = "userID"
	ContextUsernameKey     = "username"
	ContextEmailKey        = "email"
	ContextSessionTokenKey = "sessionToken"
	ContextCSRFTokenKey    = "csrfToken"
)

// AuthMiddleware guards admin routes with cookie-based sessions
type AuthMiddleware struct {
	authService services.AuthService
	cookieName  string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService services.AuthService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		cookieName:  cookieName,
	}
}

// SessionAuth resolves the session cookie and requires an admin account.
// Requests without a valid session get 401; valid sessions on accounts that
// lost staff status get 403.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err != nil || token == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Session cookie missing")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		session, user, err := m.authService.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthenticated) {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
				errorDetail = errorDetail.WithDetails("Session is invalid or expired")

				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}

			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
			return
		}

		if !user.IsAdmin() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("Admin privileges are required for this operation")

			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUsernameKey, user.Username)
		c.Set(ContextEmailKey, user.Email)
		c.Set(ContextSessionTokenKey, session.Token)
		c.Set(ContextCSRFTokenKey, session.CSRFToken)

		c.Next()
	}
}

// CSRFRequired checks the X-CSRF-Token header against the token bound to the
// session. Must run after SessionAuth.
func (m *AuthMiddleware) CSRFRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected, exists := c.Get(ContextCSRFTokenKey)
		if !exists {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Session information not found")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		expectedStr, ok := expected.(string)
		provided := c.GetHeader("X-CSRF-Token")
		if !ok || provided == "" || provided != expectedStr {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeCSRFMismatch, "CSRF token missing or invalid")

			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}
