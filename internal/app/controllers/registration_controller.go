// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/skykeen/events-backend/internal/app/intake"
	"github.com/skykeen/events-backend/internal/app/models/dto"
	"github.com/skykeen/events-backend/internal/app/services"
	"github.com/skykeen/events-backend/internal/middleware"
	"github.com/skykeen/events-backend/internal/pkg/helpers"
)

// RegistrationController handles registration related operations
type RegistrationController struct {
	registrationService services.RegistrationService
	normalizer          *intake.Normalizer
	logger              zerolog.Logger
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService services.RegistrationService, normalizer *intake.Normalizer, logger zerolog.Logger) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		normalizer:          normalizer,
		logger:              logger,
	}
}

// Create handles a public registration submission. The multipart form is
// normalized and validated as a whole; all violations come back in one 400.
func (c *RegistrationController) Create(ctx *gin.Context) {
	req, verrs := c.normalizer.Normalize(ctx)
	if verrs != nil && verrs.HasErrors() {
		c.logger.Warn().Int("violations", len(verrs.Errors)).Msg("Registration submission rejected")
		ctx.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(verrs))
		return
	}

	reg, err := c.registrationService.Create(ctx.Request.Context(), req)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to create registration")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("registrationID", reg.ID).
		Str("studentName", reg.StudentName).
		Msg("Registration created")

	ctx.JSON(http.StatusCreated, dto.NewRegistrationResponse(reg, requestBaseURL(ctx)))
}

// List returns a page of registrations, newest first. Admin only.
func (c *RegistrationController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	filter := &dto.RegistrationFilter{
		Page:            page,
		PageSize:        size,
		PaymentVerified: parsePaymentVerified(ctx),
	}

	regs, pagination, err := c.registrationService.List(ctx.Request.Context(), filter)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list registrations")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PaginatedResponse{
		Items:      dto.NewRegistrationListResponse(regs, requestBaseURL(ctx)),
		Pagination: pagination,
	})
}

// GetByID returns a single registration. Admin only.
func (c *RegistrationController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	reg, err := c.registrationService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewRegistrationResponse(reg, requestBaseURL(ctx)))
}

// Verify applies the admin payment verification patch. Admin only, CSRF
// protected.
func (c *RegistrationController) Verify(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if req.IsEmpty() {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "At least one of payment_verified or notes is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	reg, err := c.registrationService.Verify(ctx.Request.Context(), id, &req)
	if err != nil {
		c.logger.Error().Err(err).Int64("registrationID", id).Msg("Failed to verify payment")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("registrationID", id).
		Interface("paymentVerified", req.PaymentVerified).
		Msg("Payment verification updated")

	ctx.JSON(http.StatusOK, dto.NewRegistrationResponse(reg, requestBaseURL(ctx)))
}

// parseIDParam reads the :id path parameter, writing a 400 when it is not a
// positive integer.
func parseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid registration ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// parsePaymentVerified interprets the payment_verified query flag. Absent
// means no filter; only a case-insensitive "true" selects verified rows, any
// other value selects unverified ones.
func parsePaymentVerified(ctx *gin.Context) *bool {
	raw, exists := ctx.GetQuery("payment_verified")
	if !exists {
		return nil
	}
	verified := strings.EqualFold(raw, "true")
	return &verified
}

// requestBaseURL reconstructs the externally visible origin of the request,
// honoring reverse proxy forwarding headers.
func requestBaseURL(ctx *gin.Context) string {
	scheme := ctx.GetHeader("X-Forwarded-Proto")
	if scheme == "" {
		if ctx.Request.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}

	host := ctx.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = ctx.Request.Host
	}

	return scheme + "://" + host
}
