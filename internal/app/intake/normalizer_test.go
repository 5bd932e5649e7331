package intake

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skykeen/events-backend/internal/app/models"
	"github.com/skykeen/events-backend/internal/app/models/dto"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func validFormFields() map[string]string {
	return map[string]string{
		"student_name":    "Asha Rao",
		"student_class":   "10",
		"school_name":     "Sky High School",
		"student_contact": "9876543210",
		"student_email":   "asha@example.com",
		"parent_name":     "Ravi Rao",
		"parent_contact":  "9876543211",
		"payment_mode":    "UPI",
		"transaction_id":  "TXN12345",
		"competitions":    `["Quiz","Debate"]`,
		"workshops":       `[]`,
	}
}

type formFile struct {
	field, name string
	content     []byte
}

func newFormContext(t *testing.T, fields map[string]string, listValues map[string][]string, files ...formFile) *gin.Context {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for k, vs := range listValues {
		for _, v := range vs {
			require.NoError(t, writer.WriteField(k, v))
		}
	}
	for _, f := range files {
		fw, err := writer.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodPost, "/api/registrations/", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	ctx.Request = req
	return ctx
}

func findError(verrs *dto.ValidationErrors, field string) *dto.ErrorDetail {
	for i := range verrs.Errors {
		if verrs.Errors[i].Field == field {
			return &verrs.Errors[i]
		}
	}
	return nil
}

func TestNormalizeValidSubmission(t *testing.T) {
	ctx := newFormContext(t, validFormFields(), nil,
		formFile{field: "payment_screenshot", name: "shot.png", content: pngBytes})

	req, verrs := NewNormalizer().Normalize(ctx)

	require.Nil(t, verrs)
	require.NotNil(t, req)
	assert.Equal(t, "Asha Rao", req.StudentName)
	assert.Equal(t, models.StringList{"Quiz", "Debate"}, req.Competitions)
	assert.Equal(t, models.StringList{}, req.Workshops)
	require.NotNil(t, req.PaymentScreenshot)
	assert.Nil(t, req.ParentSignature)
}

func TestNormalizeCollectsAllViolations(t *testing.T) {
	fields := validFormFields()
	delete(fields, "student_name")
	delete(fields, "parent_contact")
	fields["student_email"] = "not-an-email"

	ctx := newFormContext(t, fields, nil)

	req, verrs := NewNormalizer().Normalize(ctx)

	require.Nil(t, req)
	require.NotNil(t, verrs)

	// Every violation surfaces in one pass, keyed by wire-level field name
	assert.NotNil(t, findError(verrs, "student_name"))
	assert.NotNil(t, findError(verrs, "parent_contact"))
	assert.NotNil(t, findError(verrs, "student_email"))
	assert.NotNil(t, findError(verrs, "payment_screenshot"))
}

func TestNormalizeMissingScreenshot(t *testing.T) {
	ctx := newFormContext(t, validFormFields(), nil)

	req, verrs := NewNormalizer().Normalize(ctx)

	require.Nil(t, req)
	require.NotNil(t, verrs)
	assert.NotNil(t, findError(verrs, "payment_screenshot"))
}

func TestNormalizeRejectsUnsupportedFileType(t *testing.T) {
	ctx := newFormContext(t, validFormFields(), nil,
		formFile{field: "payment_screenshot", name: "shot.txt", content: []byte("just some text")})

	req, verrs := NewNormalizer().Normalize(ctx)

	require.Nil(t, req)
	require.NotNil(t, verrs)
	detail := findError(verrs, "payment_screenshot")
	require.NotNil(t, detail)
	assert.Equal(t, dto.ErrorCodeUnsupportedFileType, detail.Code)
}

func TestNormalizeRejectsOversizedFile(t *testing.T) {
	big := make([]byte, MaxUploadSize+1)
	copy(big, pngBytes)

	ctx := newFormContext(t, validFormFields(), nil,
		formFile{field: "payment_screenshot", name: "shot.png", content: big})

	req, verrs := NewNormalizer().Normalize(ctx)

	require.Nil(t, req)
	require.NotNil(t, verrs)
	detail := findError(verrs, "payment_screenshot")
	require.NotNil(t, detail)
	assert.Equal(t, dto.ErrorCodeFileTooLarge, detail.Code)
}

func TestNormalizeValidatesOptionalSignature(t *testing.T) {
	ctx := newFormContext(t, validFormFields(), nil,
		formFile{field: "payment_screenshot", name: "shot.png", content: pngBytes},
		formFile{field: "parent_signature", name: "sig.txt", content: []byte("not an image")})

	req, verrs := NewNormalizer().Normalize(ctx)

	require.Nil(t, req)
	require.NotNil(t, verrs)
	detail := findError(verrs, "parent_signature")
	require.NotNil(t, detail)
	assert.Equal(t, dto.ErrorCodeUnsupportedFileType, detail.Code)
}

func TestNormalizeListCoercion(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		lists  map[string][]string
		want   models.StringList
	}{
		{
			name:   "single json encoded value",
			fields: map[string]string{"competitions": `["Quiz"]`},
			want:   models.StringList{"Quiz"},
		},
		{
			name:   "malformed json degrades to empty",
			fields: map[string]string{"competitions": `["Quiz"`},
			want:   models.StringList{},
		},
		{
			name:   "absent field",
			fields: nil,
			want:   models.StringList{},
		},
		{
			name:  "repeated values taken as-is",
			lists: map[string][]string{"competitions": {"Quiz", "Debate"}},
			want:  models.StringList{"Quiz", "Debate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFormFields()
			delete(fields, "competitions")
			for k, v := range tt.fields {
				fields[k] = v
			}

			ctx := newFormContext(t, fields, tt.lists,
				formFile{field: "payment_screenshot", name: "shot.png", content: pngBytes})

			req, verrs := NewNormalizer().Normalize(ctx)

			require.Nil(t, verrs)
			require.NotNil(t, req)
			assert.Equal(t, tt.want, req.Competitions)
		})
	}
}
