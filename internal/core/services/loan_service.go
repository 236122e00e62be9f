package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"lendcore/internal/adapters/persistence/models"
	"lendcore/internal/adapters/persistence/repositories"
	"lendcore/internal/config"
	"lendcore/internal/core/domain"
	"lendcore/internal/pkg/pagination"

	"gorm.io/gorm"
)

// Loan service errors
var (
	ErrNotApplicationOwner  = fmt.Errorf("%w: acting user does not match the application's declared applicant", domain.ErrUnauthorized)
	ErrAmountOutOfRange     = fmt.Errorf("%w: amount", domain.ErrInvalidInput)
	ErrTermOutOfRange       = fmt.Errorf("%w: term", domain.ErrInvalidInput)
	ErrApplicantNotFound    = fmt.Errorf("%w: applicant not found", domain.ErrInvalidInput)
	ErrApplicationNotFound  = fmt.Errorf("%w: loan application", domain.ErrNotFound)
	ErrApplicantUnresolved  = fmt.Errorf("%w: applicant referenced by the application no longer resolves", domain.ErrNotFound)
)

// LoanService handles loan application intake, evaluation, and the
// manual-review listing. It holds no state beyond its collaborators; both
// the application and its applicant are re-resolved on every call.
type LoanService struct {
	loanRepo repositories.LoanApplicationRepository
	userRepo repositories.UserRepository
	policy   DecisionPolicy
	limits   config.UnderwritingConfig
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanApplicationRepository,
	userRepo repositories.UserRepository,
	policy DecisionPolicy,
	limits config.UnderwritingConfig,
) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		userRepo: userRepo,
		policy:   policy,
		limits:   limits,
	}
}

// SubmitInput represents a loan application submission
type SubmitInput struct {
	ApplicantEmail string  `json:"applicant_email" validate:"required,email"`
	Amount         float64 `json:"amount" validate:"required"`
	TermMonths     int     `json:"term_months" validate:"required"`
}

// Submit validates and persists a new loan application on behalf of
// actingEmail, the authenticated session identity. Validation is
// short-circuiting: the first failing check wins. Exactly one store write
// happens, after all checks pass.
func (s *LoanService) Submit(ctx context.Context, input *SubmitInput, actingEmail string) (*models.LoanApplication, error) {
	// The declared applicant arrives in the payload while the acting user
	// comes from the session; reconcile them before any domain validation.
	if !strings.EqualFold(actingEmail, input.ApplicantEmail) {
		log.Printf("⚠️ Submission blocked: %s attempted to file for %s", actingEmail, input.ApplicantEmail)
		return nil, ErrNotApplicationOwner
	}

	if input.Amount <= 0 || input.Amount > s.limits.MaxLoanAmount {
		return nil, ErrAmountOutOfRange
	}
	if input.TermMonths <= 0 || input.TermMonths > s.limits.MaxTermMonths {
		return nil, ErrTermOutOfRange
	}

	email := strings.ToLower(input.ApplicantEmail)
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicantNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	app := &models.LoanApplication{
		ApplicantEmail: email,
		Amount:         input.Amount,
		TermMonths:     input.TermMonths,
		Status:         domain.StatusPendingReview,
	}

	if err := s.loanRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	log.Printf("✅ Loan application %s submitted by %s", app.ID, email)
	return app, nil
}

// Evaluate resolves the application and its applicant, applies the
// configured decision policy, and echoes the amount and term back with the
// verdict. The applicant's salary never leaves this method.
func (s *LoanService) Evaluate(ctx context.Context, applicationID string) (*domain.EvaluationResult, error) {
	app, err := s.loanRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(app.ApplicantEmail))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A stored application pointing at a user that no longer
			// resolves is a broken cross-store reference.
			return nil, ErrApplicantUnresolved
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	verdict := s.policy.Decide(user.BaseSalary, app.Amount, app.TermMonths)
	log.Printf("✅ Application %s evaluated: %s", app.ID, verdict)

	return &domain.EvaluationResult{
		Verdict:    verdict,
		Amount:     app.Amount,
		TermMonths: app.TermMonths,
	}, nil
}

// ListForReview returns the paginated manual-review queue: applications in
// the fixed status allowlist. Page, limit, and sort key are forwarded to
// the store untouched.
func (s *LoanService) ListForReview(ctx context.Context, params *pagination.Params) ([]*models.LoanApplication, int64, error) {
	apps, total, err := s.loanRepo.ListByStatuses(ctx, domain.ReviewQueueStatuses, params.Offset, params.Limit, params.SortBy)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return apps, total, nil
}
