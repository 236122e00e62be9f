package handlers

import (
	"errors"

	"lendcore/internal/core/domain"
	"lendcore/internal/core/services"
	"lendcore/internal/pkg/pagination"
	"lendcore/internal/pkg/response"
	"lendcore/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan application endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// Submit files a new loan application
// @Summary Submit loan application
// @Description Validate and persist a loan application for the authenticated user
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitInput true "Loan application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Submit(c *fiber.Ctx) error {
	var req services.SubmitInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.ValidationFailed(c, validation.Details(err))
	}

	actingEmail, ok := c.Locals("email").(string)
	if !ok || actingEmail == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	app, err := h.loanService.Submit(c.Context(), &req, actingEmail)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotApplicationOwner):
			return response.Unauthorized(c, "You cannot file an application for another user")
		case errors.Is(err, services.ErrApplicantNotFound):
			return response.BadRequest(c, "Applicant not found")
		case errors.Is(err, services.ErrAmountOutOfRange):
			return response.BadRequest(c, "Amount must be greater than 0 and not exceed 10,000,000")
		case errors.Is(err, services.ErrTermOutOfRange):
			return response.BadRequest(c, "Term must be between 1 and 60 months")
		case errors.Is(err, domain.ErrUnavailable):
			return response.ServiceUnavailable(c, "Application store unavailable")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, "Loan application submitted successfully", fiber.Map{
		"application": app,
	})
}

// Evaluate evaluates an existing loan application
// @Summary Evaluate loan application
// @Description Apply the underwriting policy to a stored application
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/evaluation [get]
func (h *LoanHandler) Evaluate(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return response.BadRequest(c, "Application ID is required")
	}

	result, err := h.loanService.Evaluate(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Loan application not found")
		case errors.Is(err, services.ErrApplicantUnresolved):
			return response.NotFound(c, "Applicant for this application not found")
		case errors.Is(err, domain.ErrUnavailable):
			return response.ServiceUnavailable(c, "Application store unavailable")
		default:
			return response.InternalServerError(c, "Failed to evaluate application")
		}
	}

	return response.Success(c, "Application evaluated", fiber.Map{
		"result": result,
	})
}

// ListForReview lists applications queued for manual review
// @Summary List manual-review queue
// @Description Paginated applications in the review status set
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param sort_by query string false "Sort key" default(created_at)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans/review [get]
func (h *LoanHandler) ListForReview(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	apps, total, err := h.loanService.ListForReview(c.Context(), params)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return response.ServiceUnavailable(c, "Application store unavailable")
		}
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, "Review queue retrieved", pagination.NewResponse(apps, params, total))
}
