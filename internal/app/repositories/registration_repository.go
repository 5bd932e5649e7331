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
	"github.com/skykeen/events-backend/internal/pkg/logger"
)

// registrationColumns is the canonical column order used by every select.
var registrationColumns = []string{
	"id", "student_name", "student_class", "school_name", "student_contact", "student_email",
	"sibling1_name", "sibling1_school", "sibling1_class",
	"sibling2_name", "sibling2_school", "sibling2_class",
	"parent_name", "parent_contact", "parent_signature",
	"competitions", "workshops",
	"payment_mode", "transaction_id", "payment_screenshot",
	"payment_verified", "notes", "created_at", "updated_at",
}

// RegistrationRepository handles registration database operations
type RegistrationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// scanRegistration scans a row in registrationColumns order.
func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var reg models.Registration
	err := row.Scan(
		&reg.ID, &reg.StudentName, &reg.StudentClass, &reg.SchoolName, &reg.StudentContact, &reg.StudentEmail,
		&reg.Sibling1Name, &reg.Sibling1School, &reg.Sibling1Class,
		&reg.Sibling2Name, &reg.Sibling2School, &reg.Sibling2Class,
		&reg.ParentName, &reg.ParentContact, &reg.ParentSignature,
		&reg.Competitions, &reg.Workshops,
		&reg.PaymentMode, &reg.TransactionID, &reg.PaymentScreenshot,
		&reg.PaymentVerified, &reg.Notes, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Create inserts a new registration and returns it with the store-assigned
// id and timestamps.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) (*models.Registration, error) {
	sqlQuery, args, err := r.sb.Insert("registrations").
		Columns(
			"student_name", "student_class", "school_name", "student_contact", "student_email",
			"sibling1_name", "sibling1_school", "sibling1_class",
			"sibling2_name", "sibling2_school", "sibling2_class",
			"parent_name", "parent_contact", "parent_signature",
			"competitions", "workshops",
			"payment_mode", "transaction_id", "payment_screenshot",
		).
		Values(
			reg.StudentName, reg.StudentClass, reg.SchoolName, reg.StudentContact, reg.StudentEmail,
			reg.Sibling1Name, reg.Sibling1School, reg.Sibling1Class,
			reg.Sibling2Name, reg.Sibling2School, reg.Sibling2Class,
			reg.ParentName, reg.ParentContact, reg.ParentSignature,
			reg.Competitions, reg.Workshops,
			reg.PaymentMode, reg.TransactionID, reg.PaymentScreenshot,
		).
		Suffix("RETURNING " + selectColumns()).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create registration SQL")
		return nil, fmt.Errorf("failed to build create registration query: %w", err)
	}

	created, err := scanRegistration(r.db.QueryRow(ctx, sqlQuery, args...))
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create registration query")
		return nil, fmt.Errorf("error inserting registration: %w", err)
	}

	logger.Info().Int64("registrationID", created.ID).Msg("Registration created")
	return created, nil
}

// GetByID retrieves a registration by its ID.
func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	sqlQuery, args, err := r.sb.Select(registrationColumns...).
		From("registrations").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get registration by ID SQL")
		return nil, fmt.Errorf("failed to build get registration query: %w", err)
	}

	reg, err := scanRegistration(r.db.QueryRow(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn().Int64("registrationID", id).Msg("Registration not found by ID")
			return nil, apperrors.ErrRegistrationNotFound
		}
		logger.Error().Err(err).Int64("registrationID", id).Msg("Error scanning registration row by ID")
		return nil, fmt.Errorf("error querying registration ID=%d: %w", id, err)
	}

	return reg, nil
}

// List retrieves registrations ordered by creation time descending, with
// pagination and an optional exact payment_verified filter.
func (r *RegistrationRepository) List(ctx context.Context, paymentVerified *bool, offset uint64, limit int) ([]models.Registration, int64, error) {
	baseSelect := r.sb.Select(registrationColumns...).From("registrations")
	countSelect := r.sb.Select("COUNT(*)").From("registrations")

	if paymentVerified != nil {
		cond := squirrel.Eq{"payment_verified": *paymentVerified}
		baseSelect = baseSelect.Where(cond)
		countSelect = countSelect.Where(cond)
	}

	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count registrations SQL")
		return nil, 0, fmt.Errorf("failed to build count registrations query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count registrations query")
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	if totalItems == 0 {
		return []models.Registration{}, 0, nil
	}

	querySql, queryArgs, err := baseSelect.
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list registrations SQL")
		return nil, 0, fmt.Errorf("failed to build list registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list registrations query")
		return nil, 0, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0, limit)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning registration row")
			return nil, 0, fmt.Errorf("failed to scan registration row: %w", err)
		}
		registrations = append(registrations, *reg)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating registration rows")
		return nil, 0, fmt.Errorf("error iterating registration rows: %w", err)
	}

	logger.Info().Int64("totalItems", totalItems).Int("returnedItems", len(registrations)).Msg("Fetched registrations")
	return registrations, totalItems, nil
}

// UpdateVerification applies a partial update of the payment_verified and
// notes fields in a single statement and returns the updated registration.
func (r *RegistrationRepository) UpdateVerification(ctx context.Context, id int64, paymentVerified *bool, notes *string) (*models.Registration, error) {
	setMap := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if paymentVerified != nil {
		setMap["payment_verified"] = *paymentVerified
	}
	if notes != nil {
		setMap["notes"] = *notes
	}

	sqlQuery, args, err := r.sb.Update("registrations").
		SetMap(setMap).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + selectColumns()).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Int64("registrationID", id).Msg("Error building update verification SQL")
		return nil, fmt.Errorf("failed to build update verification query: %w", err)
	}

	updated, err := scanRegistration(r.db.QueryRow(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn().Int64("registrationID", id).Msg("Attempted to verify non-existent registration")
			return nil, apperrors.ErrRegistrationNotFound
		}
		logger.Error().Err(err).Int64("registrationID", id).Msg("Error executing update verification query")
		return nil, fmt.Errorf("error updating registration ID=%d: %w", id, err)
	}

	logger.Info().Int64("registrationID", id).Msg("Registration verification updated")
	return updated, nil
}

// selectColumns renders registrationColumns as a comma-separated list for
// RETURNING clauses.
func selectColumns() string {
	cols := registrationColumns[0]
	for _, c := range registrationColumns[1:] {
		cols += ", " + c
	}
	return cols
}
