package services

import (
	"context"
	"fmt"

	"github.com/skykeen/events-backend/internal/app/models"
	"github.com/skykeen/events-backend/internal/app/models/dto"
	"github.com/skykeen/events-backend/internal/pkg/filestorage"
	"github.com/skykeen/events-backend/internal/pkg/helpers"
	"github.com/skykeen/events-backend/internal/pkg/logger"
)

// Storage namespaces for uploaded blobs.
const (
	PaymentNamespace   = "payments"
	SignatureNamespace = "signatures"
)

// RegistrationService defines the interface for registration operations
type RegistrationService interface {
	Create(ctx context.Context, req *dto.CreateRegistrationRequest) (*models.Registration, error)
	List(ctx context.Context, filter *dto.RegistrationFilter) ([]models.Registration, dto.PaginationInfo, error)
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
	Verify(ctx context.Context, id int64, req *dto.VerifyPaymentRequest) (*models.Registration, error)
}

// registrationServiceImpl implements RegistrationService
type registrationServiceImpl struct {
	store   RegistrationStore
	storage filestorage.FileStorage
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(store RegistrationStore, storage filestorage.FileStorage) RegistrationService {
	return &registrationServiceImpl{
		store:   store,
		storage: storage,
	}
}

// Create persists a normalized submission. Blobs are written before the
// record; if any later step fails, already-written blobs are removed so a
// failed create leaves nothing behind.
func (s *registrationServiceImpl) Create(ctx context.Context, req *dto.CreateRegistrationRequest) (*models.Registration, error) {
	screenshotPath, err := s.storage.SaveFile(req.PaymentScreenshot, PaymentNamespace)
	if err != nil {
		return nil, fmt.Errorf("error saving payment screenshot: %w", err)
	}

	var signaturePath *string
	if req.ParentSignature != nil {
		path, err := s.storage.SaveFile(req.ParentSignature, SignatureNamespace)
		if err != nil {
			s.cleanupBlobs(screenshotPath, nil)
			return nil, fmt.Errorf("error saving parent signature: %w", err)
		}
		signaturePath = &path
	}

	reg := &models.Registration{
		StudentName:       req.StudentName,
		StudentClass:      req.StudentClass,
		SchoolName:        req.SchoolName,
		StudentContact:    req.StudentContact,
		StudentEmail:      req.StudentEmail,
		Sibling1Name:      req.Sibling1Name,
		Sibling1School:    req.Sibling1School,
		Sibling1Class:     req.Sibling1Class,
		Sibling2Name:      req.Sibling2Name,
		Sibling2School:    req.Sibling2School,
		Sibling2Class:     req.Sibling2Class,
		ParentName:        req.ParentName,
		ParentContact:     req.ParentContact,
		ParentSignature:   signaturePath,
		Competitions:      req.Competitions,
		Workshops:         req.Workshops,
		PaymentMode:       req.PaymentMode,
		TransactionID:     req.TransactionID,
		PaymentScreenshot: screenshotPath,
	}

	created, err := s.store.Create(ctx, reg)
	if err != nil {
		s.cleanupBlobs(screenshotPath, signaturePath)
		return nil, fmt.Errorf("error creating registration: %w", err)
	}

	return created, nil
}

// cleanupBlobs removes blobs written for a create that did not complete.
func (s *registrationServiceImpl) cleanupBlobs(screenshotPath string, signaturePath *string) {
	if err := s.storage.DeleteFile(screenshotPath); err != nil {
		logger.Error().Err(err).Str("path", screenshotPath).Msg("Failed to clean up payment screenshot")
	}
	if signaturePath != nil {
		if err := s.storage.DeleteFile(*signaturePath); err != nil {
			logger.Error().Err(err).Str("path", *signaturePath).Msg("Failed to clean up parent signature")
		}
	}
}

// List returns a page of registrations ordered most recent first, with an
// optional exact payment_verified filter.
func (s *registrationServiceImpl) List(ctx context.Context, filter *dto.RegistrationFilter) ([]models.Registration, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	registrations, totalItems, err := s.store.List(ctx, filter.PaymentVerified, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error listing registrations: %w", err)
	}

	return registrations, helpers.NewPaginationInfo(totalItems, filter.Page, limit), nil
}

// GetByID retrieves a single registration.
func (s *registrationServiceImpl) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	reg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Verify applies the admin patch of payment_verified and notes. The two
// fields are written in one statement so the update is atomic; updated_at is
// always refreshed.
func (s *registrationServiceImpl) Verify(ctx context.Context, id int64, req *dto.VerifyPaymentRequest) (*models.Registration, error) {
	updated, err := s.store.UpdateVerification(ctx, id, req.PaymentVerified, req.Notes)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
