package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skykeen/events-backend/internal/app/models"
)

func TestFileURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/uploads/payments/a.jpg",
		FileURL("http://localhost:8080", "payments/a.jpg"))
	assert.Equal(t, "http://localhost:8080/uploads/payments/a.jpg",
		FileURL("http://localhost:8080/", "/payments/a.jpg"))
	assert.Equal(t, "", FileURL("http://localhost:8080", ""))
}

func TestNewRegistrationResponse(t *testing.T) {
	sig := "signatures/sig.png"
	reg := &models.Registration{
		ID:                7,
		StudentName:       "Asha Rao",
		StudentEmail:      "asha@example.com",
		ParentSignature:   &sig,
		Competitions:      models.StringList{"Quiz"},
		PaymentScreenshot: "payments/shot.jpg",
		PaymentVerified:   true,
		Notes:             "verified by front desk",
	}

	resp := NewRegistrationResponse(reg, "https://events.example.com")

	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "https://events.example.com/uploads/payments/shot.jpg", resp.PaymentScreenshot)
	require.NotNil(t, resp.ParentSignature)
	assert.Equal(t, "https://events.example.com/uploads/signatures/sig.png", *resp.ParentSignature)
	assert.Equal(t, models.StringList{"Quiz"}, resp.Competitions)
	assert.True(t, resp.PaymentVerified)
	assert.Equal(t, "verified by front desk", resp.Notes)

	// Workshops was nil on the model but must surface as an empty list
	assert.NotNil(t, resp.Workshops)
	assert.Empty(t, resp.Workshops)
}

func TestNewRegistrationResponseNoSignature(t *testing.T) {
	reg := &models.Registration{
		ID:                3,
		PaymentScreenshot: "payments/shot.jpg",
	}

	resp := NewRegistrationResponse(reg, "http://localhost:8080")

	assert.Nil(t, resp.ParentSignature)
}

func TestNewRegistrationListResponse(t *testing.T) {
	regs := []models.Registration{
		{ID: 1, PaymentScreenshot: "payments/a.jpg"},
		{ID: 2, PaymentScreenshot: "payments/b.jpg"},
	}

	responses := NewRegistrationListResponse(regs, "http://localhost:8080")

	require.Len(t, responses, 2)
	assert.Equal(t, int64(1), responses[0].ID)
	assert.Equal(t, int64(2), responses[1].ID)

	// An empty page still serializes as a list
	empty := NewRegistrationListResponse(nil, "http://localhost:8080")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestVerifyPaymentRequestIsEmpty(t *testing.T) {
	assert.True(t, (&VerifyPaymentRequest{}).IsEmpty())

	verified := false
	assert.False(t, (&VerifyPaymentRequest{PaymentVerified: &verified}).IsEmpty())

	notes := ""
	assert.False(t, (&VerifyPaymentRequest{Notes: &notes}).IsEmpty())
}
