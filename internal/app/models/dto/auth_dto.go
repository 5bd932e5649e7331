package dto

import (
	"github.com/skykeen/events-backend/internal/app/models"
)

// LoginRequest is the admin login body. The email field carries the login
// identifier and may hold either an email address or a username.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the minimal account representation returned by auth endpoints.
type UserSummary struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// NewUserSummary builds a UserSummary from a user model.
func NewUserSummary(user *models.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *UserSummary `json:"user"`
}

// CheckResponse reports session state; user is present only when authenticated.
type CheckResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *UserSummary `json:"user,omitempty"`
}

// CSRFTokenResponse carries the anti-forgery token for subsequent
// state-changing requests.
type CSRFTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}
