package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skykeen/events-backend/internal/app/models"
	"github.com/skykeen/events-backend/internal/pkg/apperrors"
)

const testCookieName = "skykeen_session"

type fakeAuthService struct {
	session *models.Session
	user    *models.User
}

func (f *fakeAuthService) Login(context.Context, string, string) (*models.Session, *models.User, error) {
	panic("not used")
}

func (f *fakeAuthService) Logout(context.Context, string) error {
	panic("not used")
}

func (f *fakeAuthService) ResolveSession(_ context.Context, token string) (*models.Session, *models.User, error) {
	if f.session == nil || token != f.session.Token {
		return nil, nil, apperrors.ErrUnauthenticated
	}
	return f.session, f.user, nil
}

func (f *fakeAuthService) RotateCSRF(context.Context, string) (string, error) {
	panic("not used")
}

func adminFixture() *fakeAuthService {
	return &fakeAuthService{
		session: &models.Session{
			Token:     "session-token",
			UserID:    1,
			CSRFToken: "csrf-token",
			ExpiresAt: time.Now().Add(time.Hour),
		},
		user: &models.User{ID: 1, Username: "admin", Email: "admin@example.com", IsStaff: true, IsActive: true},
	}
}

func performRequest(m *AuthMiddleware, withCSRF bool, mutate func(*http.Request)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := []gin.HandlerFunc{m.SessionAuth()}
	if withCSRF {
		handlers = append(handlers, m.CSRFRequired())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetInt64(ContextUserIDKey)})
	})
	router.POST("/protected", handlers...)

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	if mutate != nil {
		mutate(req)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionAuthMissingCookie(t *testing.T) {
	m := NewAuthMiddleware(adminFixture(), testCookieName)

	w := performRequest(m, false, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_008")
}

func TestSessionAuthInvalidSession(t *testing.T) {
	m := NewAuthMiddleware(adminFixture(), testCookieName)

	w := performRequest(m, false, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: "bogus"})
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionAuthNonAdmin(t *testing.T) {
	svc := adminFixture()
	svc.user.IsStaff = false
	svc.user.IsSuperuser = false
	m := NewAuthMiddleware(svc, testCookieName)

	w := performRequest(m, false, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: "session-token"})
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_009")
}

func TestSessionAuthSuccess(t *testing.T) {
	m := NewAuthMiddleware(adminFixture(), testCookieName)

	w := performRequest(m, false, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: "session-token"})
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":1`)
}

func TestCSRFRequired(t *testing.T) {
	m := NewAuthMiddleware(adminFixture(), testCookieName)

	withSession := func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: "session-token"})
	}

	// Missing header
	w := performRequest(m, true, withSession)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_010")

	// Wrong token
	w = performRequest(m, true, func(req *http.Request) {
		withSession(req)
		req.Header.Set("X-CSRF-Token", "wrong")
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Matching token
	w = performRequest(m, true, func(req *http.Request) {
		withSession(req)
		req.Header.Set("X-CSRF-Token", "csrf-token")
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
