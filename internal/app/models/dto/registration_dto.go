package dto

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/skykeen/events-backend/internal/app/models"
)

// CreateRegistrationRequest is the normalized output of the intake pipeline:
// every list field is a materialized list and both uploads have passed
// size/type validation.
type CreateRegistrationRequest struct {
	StudentName    string `form:"student_name" validate:"required,max=255"`
	StudentClass   string `form:"student_class" validate:"required,max=100"`
	SchoolName     string `form:"school_name" validate:"required,max=255"`
	StudentContact string `form:"student_contact" validate:"required,max=20"`
	StudentEmail   string `form:"student_email" validate:"required,email"`

	Sibling1Name   string `form:"sibling1_name" validate:"max=255"`
	Sibling1School string `form:"sibling1_school" validate:"max=255"`
	Sibling1Class  string `form:"sibling1_class" validate:"max=100"`
	Sibling2Name   string `form:"sibling2_name" validate:"max=255"`
	Sibling2School string `form:"sibling2_school" validate:"max=255"`
	Sibling2Class  string `form:"sibling2_class" validate:"max=100"`

	ParentName    string `form:"parent_name" validate:"required,max=255"`
	ParentContact string `form:"parent_contact" validate:"required,max=20"`

	Competitions models.StringList `form:"-"`
	Workshops    models.StringList `form:"-"`

	PaymentMode   string `form:"payment_mode" validate:"required,max=100"`
	TransactionID string `form:"transaction_id" validate:"required,max=255"`

	PaymentScreenshot *multipart.FileHeader `form:"-"` // Required, validated by intake
	ParentSignature   *multipart.FileHeader `form:"-"` // Optional, validated when present
}

// VerifyPaymentRequest is the admin patch body for the verify operation.
// Both fields are optional; only the provided ones are applied.
type VerifyPaymentRequest struct {
	PaymentVerified *bool   `json:"payment_verified"`
	Notes           *string `json:"notes"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (r *VerifyPaymentRequest) IsEmpty() bool {
	return r.PaymentVerified == nil && r.Notes == nil
}

// RegistrationFilter carries list query parameters.
type RegistrationFilter struct {
	PaymentVerified *bool
	Page            int
	PageSize        int
}

// RegistrationResponse is the API-facing representation of a stored
// registration. File fields are absolute URLs, never raw storage paths.
type RegistrationResponse struct {
	ID                int64             `json:"id"`
	StudentName       string            `json:"student_name"`
	StudentClass      string            `json:"student_class"`
	SchoolName        string            `json:"school_name"`
	StudentContact    string            `json:"student_contact"`
	StudentEmail      string            `json:"student_email"`
	Sibling1Name      string            `json:"sibling1_name"`
	Sibling1School    string            `json:"sibling1_school"`
	Sibling1Class     string            `json:"sibling1_class"`
	Sibling2Name      string            `json:"sibling2_name"`
	Sibling2School    string            `json:"sibling2_school"`
	Sibling2Class     string            `json:"sibling2_class"`
	ParentName        string            `json:"parent_name"`
	ParentContact     string            `json:"parent_contact"`
	ParentSignature   *string           `json:"parent_signature"`
	Competitions      models.StringList `json:"competitions"`
	Workshops         models.StringList `json:"workshops"`
	PaymentMode       string            `json:"payment_mode"`
	TransactionID     string            `json:"transaction_id"`
	PaymentScreenshot string            `json:"payment_screenshot"`
	PaymentVerified   bool              `json:"payment_verified"`
	Notes             string            `json:"notes"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// NewRegistrationResponse builds the API representation of a registration.
// baseURL is the scheme+host of the current request; stored file paths are
// rewritten into absolute URLs under /uploads.
func NewRegistrationResponse(reg *models.Registration, baseURL string) RegistrationResponse {
	resp := RegistrationResponse{
		ID:                reg.ID,
		StudentName:       reg.StudentName,
		StudentClass:      reg.StudentClass,
		SchoolName:        reg.SchoolName,
		StudentContact:    reg.StudentContact,
		StudentEmail:      reg.StudentEmail,
		Sibling1Name:      reg.Sibling1Name,
		Sibling1School:    reg.Sibling1School,
		Sibling1Class:     reg.Sibling1Class,
		Sibling2Name:      reg.Sibling2Name,
		Sibling2School:    reg.Sibling2School,
		Sibling2Class:     reg.Sibling2Class,
		ParentName:        reg.ParentName,
		ParentContact:     reg.ParentContact,
		Competitions:      reg.Competitions,
		Workshops:         reg.Workshops,
		PaymentMode:       reg.PaymentMode,
		TransactionID:     reg.TransactionID,
		PaymentScreenshot: FileURL(baseURL, reg.PaymentScreenshot),
		PaymentVerified:   reg.PaymentVerified,
		Notes:             reg.Notes,
		CreatedAt:         reg.CreatedAt,
		UpdatedAt:         reg.UpdatedAt,
	}

	// Lists are guaranteed non-nil in the representation
	if resp.Competitions == nil {
		resp.Competitions = models.StringList{}
	}
	if resp.Workshops == nil {
		resp.Workshops = models.StringList{}
	}

	if reg.ParentSignature != nil && *reg.ParentSignature != "" {
		url := FileURL(baseURL, *reg.ParentSignature)
		resp.ParentSignature = &url
	}

	return resp
}

// NewRegistrationListResponse builds representations for a page of registrations.
func NewRegistrationListResponse(regs []models.Registration, baseURL string) []RegistrationResponse {
	responses := make([]RegistrationResponse, 0, len(regs))
	for i := range regs {
		responses = append(responses, NewRegistrationResponse(&regs[i], baseURL))
	}
	return responses
}

// FileURL joins the request base URL and a storage path into an absolute
// URL under the /uploads static route.
func FileURL(baseURL, storagePath string) string {
	if storagePath == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/uploads/" + strings.TrimLeft(storagePath, "/")
}
