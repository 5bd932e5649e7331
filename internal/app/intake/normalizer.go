// Package intake turns raw registration submissions into validated,
// normalized creation requests. List-valued fields arrive as JSON-encoded
// strings and are coerced to real lists; uploads are checked for size and
// content type; violations are collected per field rather than
// short-circuiting on the first failure.
package intake

import (
	"errors"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/skykeen/events-backend/internal/app/models"
	"github.com/skykeen/events-backend/internal/app/models/dto"
	"github.com/skykeen/events-backend/internal/pkg/apperrors"
	"github.com/skykeen/events-backend/internal/pkg/logger"
)

// MaxUploadSize is the upper bound for uploaded images (10 MiB).
const MaxUploadSize = 10 << 20

// allowedImageTypes are the accepted MIME types for uploaded images.
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// Normalizer validates and normalizes registration submissions.
type Normalizer struct {
	validate *validator.Validate
}

// NewNormalizer creates a Normalizer with field names resolved from form tags
// so validation errors are keyed by the wire-level field name.
func NewNormalizer() *Normalizer {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Normalizer{validate: validate}
}

// Normalize parses the multipart submission into a creation request. On
// failure it returns the complete set of field-keyed violations; the request
// is only returned when every field and file passed validation.
func (n *Normalizer) Normalize(c *gin.Context) (*dto.CreateRegistrationRequest, *dto.ValidationErrors) {
	verrs := dto.NewValidationErrors()

	var req dto.CreateRegistrationRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn().Err(err).Msg("Failed to bind registration form")
		verrs.AddError("form", "Invalid form data")
		return nil, verrs
	}

	if err := n.validate.Struct(&req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				verrs.AddError(fe.Field(), formatFieldError(fe))
			}
		} else {
			verrs.AddError("form", "Invalid form data")
		}
	}

	// List fields: lenient coercion, never an error
	req.Competitions = normalizeListField(c, "competitions")
	req.Workshops = normalizeListField(c, "workshops")

	// Payment screenshot is required
	screenshot, err := c.FormFile("payment_screenshot")
	if err != nil {
		verrs.AddError("payment_screenshot", "Payment screenshot is required")
	} else {
		validateImage(screenshot, "payment_screenshot", verrs)
		req.PaymentScreenshot = screenshot
	}

	// Parent signature is optional; validated only when present
	signature, err := c.FormFile("parent_signature")
	if err == nil && signature != nil {
		validateImage(signature, "parent_signature", verrs)
		req.ParentSignature = signature
	} else if err != nil && !errors.Is(err, http.ErrMissingFile) {
		verrs.AddError("parent_signature", "Invalid file upload")
	}

	if verrs.HasErrors() {
		return nil, verrs
	}
	return &req, nil
}

// normalizeListField reads a list-valued form field. Repeated form values are
// taken as-is; a single value is treated as a JSON-encoded list and decoded
// leniently; absent fields normalize to an empty list.
func normalizeListField(c *gin.Context, field string) models.StringList {
	values := c.PostFormArray(field)
	switch len(values) {
	case 0:
		return models.StringList{}
	case 1:
		return models.DecodeStringList(values[0])
	default:
		return models.StringList(values)
	}
}

// validateImage enforces the size cap and accepted image formats, appending
// field-keyed violations. The upload itself is not touched on failure.
func validateImage(fh *multipart.FileHeader, field string, verrs *dto.ValidationErrors) {
	if fh.Size > MaxUploadSize {
		verrs.AddErrorWithCode(dto.ErrorCodeFileTooLarge, field, "File must be less than 10MB")
		return
	}

	mime, err := sniffContentType(fh)
	if err != nil {
		// Fall back to the declared type when the content cannot be read
		mime = fh.Header.Get("Content-Type")
	}

	for _, allowed := range allowedImageTypes {
		if mime == allowed {
			return
		}
	}
	verrs.AddErrorWithCode(dto.ErrorCodeUnsupportedFileType, field, "Only JPG, PNG, and WEBP formats are allowed")
}

// sniffContentType detects the MIME type from the file content rather than
// trusting the client-declared header.
func sniffContentType(fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", apperrors.NewCustomError(err, "failed to open uploaded file")
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	return mtype.String(), nil
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "max":
		return "Must be at most " + e.Param() + " characters"
	default:
		return "Validation failed: " + e.Tag()
	}
}
