package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/skykeen/events-backend/internal/app/models"
	"github.com/skykeen/events-backend/internal/pkg/apperrors"
	"github.com/skykeen/events-backend/internal/pkg/auth"
)

// AuthService handles the admin session lifecycle: credential verification,
// session establishment and teardown, and CSRF token issuance.
type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*models.Session, *models.User, error)
	Logout(ctx context.Context, token string) error
	ResolveSession(ctx context.Context, token string) (*models.Session, *models.User, error)
	RotateCSRF(ctx context.Context, token string) (string, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	users      CredentialStore
	sessions   SessionStore
	sessionTTL time.Duration
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users CredentialStore, sessions SessionStore, sessionTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// resolveAccount resolves a login identifier to an account, trying email
// lookup first and falling back to username lookup.
func (s *authServiceImpl) resolveAccount(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("error looking up account by email: %w", err)
	}

	user, err = s.users.GetByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("error looking up account by username: %w", err)
	}

	return nil, apperrors.ErrInvalidCredentials
}

// Login verifies credentials and establishes a new server-side session.
// Valid credentials on a non-admin account are rejected without creating a
// session.
func (s *authServiceImpl) Login(ctx context.Context, identifier, password string) (*models.Session, *models.User, error) {
	user, err := s.resolveAccount(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}

	if !user.IsActive || !auth.CheckPassword(user.Password, password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsAdmin() {
		s.logger.Warn().Int64("userID", user.ID).Msg("Login rejected: account lacks admin privileges")
		return nil, nil, apperrors.ErrNotAdmin
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return nil, nil, fmt.Errorf("error generating session token: %w", err)
	}
	csrfToken, err := auth.GenerateToken()
	if err != nil {
		return nil, nil, fmt.Errorf("error generating csrf token: %w", err)
	}

	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		CSRFToken: csrfToken,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("error creating session: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login already succeeded; just record the failure
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to update last login timestamp")
	}

	s.logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("Admin logged in")
	return session, user, nil
}

// Logout destroys the session.
func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return apperrors.ErrUnauthenticated
		}
		return fmt.Errorf("error destroying session: %w", err)
	}
	return nil
}

// ResolveSession maps a session token to its session and account. Missing or
// expired sessions and disabled accounts report ErrUnauthenticated.
func (s *authServiceImpl) ResolveSession(ctx context.Context, token string) (*models.Session, *models.User, error) {
	if token == "" {
		return nil, nil, apperrors.ErrUnauthenticated
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) || errors.Is(err, apperrors.ErrSessionExpired) {
			return nil, nil, apperrors.ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("error resolving session: %w", err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("error resolving session user: %w", err)
	}

	if !user.IsActive {
		return nil, nil, apperrors.ErrUnauthenticated
	}

	return session, user, nil
}

// RotateCSRF issues a fresh CSRF token. For an authenticated caller the new
// token replaces the one bound to the session; anonymous callers get a
// transient token so the login form can still submit one.
func (s *authServiceImpl) RotateCSRF(ctx context.Context, token string) (string, error) {
	csrfToken, err := auth.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("error generating csrf token: %w", err)
	}

	if token == "" {
		return csrfToken, nil
	}

	if err := s.sessions.UpdateCSRFToken(ctx, token, csrfToken); err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return csrfToken, nil
		}
		return "", fmt.Errorf("error rotating csrf token: %w", err)
	}

	return csrfToken, nil
}
