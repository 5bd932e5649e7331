package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/skykeen/events-backend/internal/app/models/dto"
	"github.com/skykeen/events-backend/internal/app/services"
	"github.com/skykeen/events-backend/internal/config"
	"github.com/skykeen/events-backend/internal/middleware"
)

// AuthController handles admin session operations
type AuthController struct {
	authService   services.AuthService
	sessionConfig config.SessionConfig
	logger        zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, sessionConfig config.SessionConfig, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:   authService,
		sessionConfig: sessionConfig,
		logger:        logger,
	}
}

// Login verifies admin credentials and establishes a session cookie
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Email and password are required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	session, user, err := c.authService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.logger.Warn().Err(err).Str("identifier", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, session.Token, int(time.Until(session.ExpiresAt).Seconds()))

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    dto.NewUserSummary(user),
	})
}

// Logout destroys the current session and clears the cookie
func (c *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextSessionTokenKey)

	if err := c.authService.Logout(ctx.Request.Context(), token); err != nil {
		c.logger.Error().Err(err).Msg("Failed to destroy session")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Logged out",
	})
}

// Check reports whether the request carries a valid admin session. It always
// answers 200; an anonymous caller just gets authenticated=false.
func (c *AuthController) Check(ctx *gin.Context) {
	token, err := ctx.Cookie(c.sessionConfig.CookieName)
	if err != nil || token == "" {
		ctx.JSON(http.StatusOK, dto.CheckResponse{Authenticated: false})
		return
	}

	_, user, err := c.authService.ResolveSession(ctx.Request.Context(), token)
	if err != nil || !user.IsAdmin() {
		ctx.JSON(http.StatusOK, dto.CheckResponse{Authenticated: false})
		return
	}

	ctx.JSON(http.StatusOK, dto.CheckResponse{
		Authenticated: true,
		User:          dto.NewUserSummary(user),
	})
}

// CSRFToken issues a fresh anti-forgery token. For an authenticated caller it
// is bound to the session; anonymous callers get a transient one.
func (c *AuthController) CSRFToken(ctx *gin.Context) {
	// Missing cookie just means an anonymous caller
	token, _ := ctx.Cookie(c.sessionConfig.CookieName)

	csrfToken, err := c.authService.RotateCSRF(ctx.Request.Context(), token)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to issue CSRF token")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CSRFTokenResponse{CSRFToken: csrfToken})
}

// setSessionCookie writes or clears the HTTP-only session cookie.
func (c *AuthController) setSessionCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		c.sessionConfig.CookieName,
		value,
		maxAge,
		"/",
		c.sessionConfig.CookieDomain,
		c.sessionConfig.CookieSecure,
		true,
	)
}
