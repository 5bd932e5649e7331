package models

import (
	"time"
)

// Session defines the server-side session model based on the 'sessions' table.
// The token is the opaque value carried in the session cookie; the CSRF token
// is bound to the session and checked on state-changing requests.
type Session struct {
	Token     string    `json:"-" db:"token"`
	UserID    int64     `json:"userId" db:"user_id"`
	CSRFToken string    `json:"-" db:"csrf_token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
