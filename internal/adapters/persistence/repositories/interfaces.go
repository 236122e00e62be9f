package repositories

import (
	"context"

	"lendcore/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface. Lookups are exact-match;
// callers normalize emails to lower case before calling.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
}

// LoanApplicationRepository defines loan application repository interface.
type LoanApplicationRepository interface {
	Create(ctx context.Context, app *models.LoanApplication) error
	GetByID(ctx context.Context, id string) (*models.LoanApplication, error)
	ListByStatuses(ctx context.Context, statuses []string, offset, limit int, sortBy string) ([]*models.LoanApplication, int64, error)
}

// RefreshTokenRepository defines refresh token repository interface.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}
