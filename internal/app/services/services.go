package services

import (
	"context"

	"github.com/skykeen/events-backend/internal/app/models"
)

// RegistrationStore is the persistence surface the registration service
// depends on. Implemented by repositories.RegistrationRepository.
type RegistrationStore interface {
	Create(ctx context.Context, reg *models.Registration) (*models.Registration, error)
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
	List(ctx context.Context, paymentVerified *bool, offset uint64, limit int) ([]models.Registration, int64, error)
	UpdateVerification(ctx context.Context, id int64, paymentVerified *bool, notes *string) (*models.Registration, error)
}

// CredentialStore looks up staff accounts and verifies nothing itself;
// password checks stay in the auth service. Implemented by
// repositories.UserRepository.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// SessionStore owns the token→session mapping. Implemented by
// repositories.SessionRepository.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	UpdateCSRFToken(ctx context.Context, token, csrfToken string) error
}
