package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories is the container for all repository instances
type Repositories struct {
	RegistrationRepository *RegistrationRepository
	UserRepository         *UserRepository
	SessionRepository      *SessionRepository
}

// NewRepositories creates all repositories backed by the given pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		RegistrationRepository: NewRegistrationRepository(db),
		UserRepository:         NewUserRepository(db),
		SessionRepository:      NewSessionRepository(db),
	}
}
