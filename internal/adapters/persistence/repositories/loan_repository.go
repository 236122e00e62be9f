package repositories

import (
	"context"

	"lendcore/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// sortableColumns maps accepted sort keys to real columns. Anything outside
// the allowlist falls back to created_at.
var sortableColumns = map[string]string{
	"created_at":      "created_at",
	"amount":          "amount",
	"term_months":     "term_months",
	"status":          "status",
	"applicant_email": "applicant_email",
}

// loanApplicationRepository implements LoanApplicationRepository interface
type loanApplicationRepository struct {
	db *gorm.DB
}

// NewLoanApplicationRepository creates a new loan application repository
func NewLoanApplicationRepository(db *gorm.DB) LoanApplicationRepository {
	return &loanApplicationRepository{db: db}
}

// Create creates a new loan application
func (r *loanApplicationRepository) Create(ctx context.Context, app *models.LoanApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets a loan application by ID
func (r *loanApplicationRepository) GetByID(ctx context.Context, id string) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByStatuses lists loan applications filtered by status, paginated and
// ordered by the given sort key.
func (r *loanApplicationRepository) ListByStatuses(ctx context.Context, statuses []string, offset, limit int, sortBy string) ([]*models.LoanApplication, int64, error) {
	var apps []*models.LoanApplication
	var total int64

	column, ok := sortableColumns[sortBy]
	if !ok {
		column = "created_at"
	}

	base := r.db.WithContext(ctx).Model(&models.LoanApplication{}).Where("status IN ?", statuses)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order(column).
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}
