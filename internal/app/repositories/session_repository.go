package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skykeen/events-backend/internal/app/models"
	"github.com/skykeen/events-backend/internal/pkg/apperrors"
	"github.com/skykeen/events-backend/internal/pkg/logger"
)

// SessionRepository handles server-side session persistence. Sessions are
// opaque rows keyed by token; expiry cleanup is an external concern, lookups
// simply reject expired rows.
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists a new session.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	sqlQuery, args, err := r.sb.Insert("sessions").
		Columns("token", "user_id", "csrf_token", "expires_at").
		Values(session.Token, session.UserID, session.CSRFToken, session.ExpiresAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create session SQL")
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sqlQuery, args...); err != nil {
		logger.Error().Err(err).Int64("userID", session.UserID).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}

	return nil
}

// GetByToken retrieves a session by its token. Expired sessions are reported
// as ErrSessionExpired.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	sqlQuery, args, err := r.sb.Select("token", "user_id", "csrf_token", "expires_at", "created_at").
		From("sessions").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get session SQL")
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	var session models.Session
	err = r.db.QueryRow(ctx, sqlQuery, args...).
		Scan(&session.Token, &session.UserID, &session.CSRFToken, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		logger.Error().Err(err).Msg("Error scanning session row")
		return nil, fmt.Errorf("error querying session: %w", err)
	}

	if session.IsExpired() {
		return nil, apperrors.ErrSessionExpired
	}

	return &session, nil
}

// Delete destroys a session by its token.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	sqlQuery, args, err := r.sb.Delete("sessions").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete session SQL")
		return fmt.Errorf("failed to build delete session query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlQuery, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete session query")
		return fmt.Errorf("error deleting session: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}

	return nil
}

// UpdateCSRFToken replaces the CSRF token bound to a session.
func (r *SessionRepository) UpdateCSRFToken(ctx context.Context, token, csrfToken string) error {
	sqlQuery, args, err := r.sb.Update("sessions").
		Set("csrf_token", csrfToken).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update csrf token SQL")
		return fmt.Errorf("failed to build update csrf token query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sqlQuery, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update csrf token query")
		return fmt.Errorf("error updating csrf token: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}

	return nil
}
