package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skykeen/events-backend/internal/app/models"
	"github.com/skykeen/events-backend/internal/pkg/apperrors"
	"github.com/skykeen/events-backend/internal/pkg/dberrors"
	"github.com/skykeen/events-backend/internal/pkg/logger"
)

var userColumns = []string{
	"id", "username", "email", "password",
	"is_staff", "is_superuser", "is_active",
	"last_login_at", "created_at", "updated_at",
}

// UserRepository handles staff account database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.IsStaff, &user.IsSuperuser, &user.IsActive,
		&user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) getBy(ctx context.Context, cond squirrel.Eq) (*models.User, error) {
	sqlQuery, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error querying user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username})
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	sqlQuery, args, err := r.sb.Insert("users").
		Columns("username", "email", "password", "is_staff", "is_superuser", "is_active").
		Values(user.Username, user.Email, user.Password, user.IsStaff, user.IsSuperuser, user.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sqlQuery, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			logger.Warn().Str("username", user.Username).Msg("Attempted to create duplicate user")
			if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
				return 0, apperrors.NewBadRequestError("email already exists")
			}
			return 0, apperrors.NewBadRequestError("username already exists")
		}
		logger.Error().Err(err).Msg("Error executing create user query")
		return 0, fmt.Errorf("error inserting user: %w", err)
	}

	logger.Info().Int64("userID", id).Str("username", user.Username).Msg("User created")
	return id, nil
}

// UpdateLastLogin stamps the user's last login time.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	sqlQuery, args, err := r.sb.Update("users").
		Set("last_login_at", time.Now()).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sqlQuery, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating last login")
		return fmt.Errorf("error updating last login for user ID=%d: %w", userID, err)
	}
	return nil
}

// HasSuperuser reports whether any superuser account exists.
func (r *UserRepository) HasSuperuser(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE is_superuser = TRUE)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for superuser: %w", err)
	}
	return exists, nil
}
