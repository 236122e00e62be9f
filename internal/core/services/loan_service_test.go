package services

import (
	"context"
	"errors"
	"testing"

	"lendcore/internal/adapters/persistence/models"
	"lendcore/internal/config"
	"lendcore/internal/core/domain"
	"lendcore/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// mockUserRepo is a function-field mock of repositories.UserRepository
type mockUserRepo struct {
	createFunc        func(ctx context.Context, user *models.User) error
	getByIDFunc       func(ctx context.Context, id uint) (*models.User, error)
	getByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	existsByEmailFunc func(ctx context.Context, email string) (bool, error)
	listFunc          func(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.existsByEmailFunc(ctx, email)
}

func (m *mockUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return m.listFunc(ctx, offset, limit)
}

// mockLoanRepo is a function-field mock of repositories.LoanApplicationRepository
type mockLoanRepo struct {
	createFunc         func(ctx context.Context, app *models.LoanApplication) error
	getByIDFunc        func(ctx context.Context, id string) (*models.LoanApplication, error)
	listByStatusesFunc func(ctx context.Context, statuses []string, offset, limit int, sortBy string) ([]*models.LoanApplication, int64, error)
}

func (m *mockLoanRepo) Create(ctx context.Context, app *models.LoanApplication) error {
	return m.createFunc(ctx, app)
}

func (m *mockLoanRepo) GetByID(ctx context.Context, id string) (*models.LoanApplication, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockLoanRepo) ListByStatuses(ctx context.Context, statuses []string, offset, limit int, sortBy string) ([]*models.LoanApplication, int64, error) {
	return m.listByStatusesFunc(ctx, statuses, offset, limit, sortBy)
}

func userWithSalary(email string, salary float64) *models.User {
	return &models.User{
		ID:         1,
		FirstName:  "Alice",
		LastName:   "Adams",
		Email:      email,
		BaseSalary: salary,
		Roles:      models.RoleUser,
	}
}

func newTestLoanService(loanRepo *mockLoanRepo, userRepo *mockUserRepo) *LoanService {
	cfg := testUnderwritingConfig(config.PolicyTiered)
	policy, _ := NewDecisionPolicy(cfg)
	return NewLoanService(loanRepo, userRepo, policy, cfg)
}

func TestLoanService_Submit_Success(t *testing.T) {
	var created *models.LoanApplication
	loanRepo := &mockLoanRepo{
		createFunc: func(ctx context.Context, app *models.LoanApplication) error {
			app.ID = "7b0f7e9e-5f0a-4f57-9f2f-2b16f8d5a111"
			created = app
			return nil
		},
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			assert.Equal(t, "alice@x.com", email)
			return userWithSalary(email, 5_000_000), nil
		},
	}
	svc := newTestLoanService(loanRepo, userRepo)

	app, err := svc.Submit(context.Background(), &SubmitInput{
		ApplicantEmail: "alice@x.com",
		Amount:         2_000_000,
		TermMonths:     12,
	}, "alice@x.com")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, "alice@x.com", app.ApplicantEmail)
	assert.Equal(t, 2_000_000.0, app.Amount)
	assert.Equal(t, 12, app.TermMonths)
	assert.Equal(t, domain.StatusPendingReview, app.Status)
}

func TestLoanService_Submit_OwnershipMismatch(t *testing.T) {
	svc := newTestLoanService(&mockLoanRepo{}, &mockUserRepo{})

	_, err := svc.Submit(context.Background(), &SubmitInput{
		ApplicantEmail: "alice@x.com",
		Amount:         1_000,
		TermMonths:     12,
	}, "bob@x.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotApplicationOwner)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLoanService_Submit_OwnershipCaseInsensitive(t *testing.T) {
	loanRepo := &mockLoanRepo{
		createFunc: func(ctx context.Context, app *models.LoanApplication) error { return nil },
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			// lookup must arrive normalized
			assert.Equal(t, "alice@x.com", email)
			return userWithSalary(email, 5_000_000), nil
		},
	}
	svc := newTestLoanService(loanRepo, userRepo)

	app, err := svc.Submit(context.Background(), &SubmitInput{
		ApplicantEmail: "Alice@X.com",
		Amount:         1_000,
		TermMonths:     12,
	}, "ALICE@x.COM")

	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", app.ApplicantEmail)
}

func TestLoanService_Submit_AmountBounds(t *testing.T) {
	svc := newTestLoanService(&mockLoanRepo{}, &mockUserRepo{})

	for _, amount := range []float64{0, -1, 10_000_001} {
		_, err := svc.Submit(context.Background(), &SubmitInput{
			ApplicantEmail: "alice@x.com",
			Amount:         amount,
			TermMonths:     12,
		}, "alice@x.com")
		assert.ErrorIs(t, err, ErrAmountOutOfRange, "amount %v", amount)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	// boundary is inclusive
	loanRepo := &mockLoanRepo{
		createFunc: func(ctx context.Context, app *models.LoanApplication) error { return nil },
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return userWithSalary(email, 5_000_000), nil
		},
	}
	svc = newTestLoanService(loanRepo, userRepo)
	_, err := svc.Submit(context.Background(), &SubmitInput{
		ApplicantEmail: "alice@x.com",
		Amount:         10_000_000,
		TermMonths:     12,
	}, "alice@x.com")
	assert.NoError(t, err)
}

func TestLoanService_Submit_TermBounds(t *testing.T) {
	svc := newTestLoanService(&mockLoanRepo{}, &mockUserRepo{})

	for _, term := range []int{0, -5, 61} {
		_, err := svc.Submit(context.Background(), &SubmitInput{
			ApplicantEmail: "alice@x.com",
			Amount:         1_000,
			TermMonths:     term,
		}, "alice@x.com")
		assert.ErrorIs(t, err, ErrTermOutOfRange, "term %d", term)
	}

	loanRepo := &mockLoanRepo{
		createFunc: func(ctx context.Context, app *models.LoanApplication) error { return nil },
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return userWithSalary(email, 5_000_000), nil
		},
	}
	svc = newTestLoanService(loanRepo, userRepo)
	_, err := svc.Submit(context.Background(), &SubmitInput{
		ApplicantEmail: "alice@x.com",
		Amount:         1_000,
		TermMonths:     60,
	}, "alice@x.com")
	assert.NoError(t, err)
}

func TestLoanService_Submit_ApplicantNotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestLoanService(&mockLoanRepo{}, userRepo)

	_, err := svc.Submit(context.Background(), &SubmitInput{
		ApplicantEmail: "ghost@x.com",
		Amount:         1_000,
		TermMonths:     12,
	}, "ghost@x.com")

	assert.ErrorIs(t, err, ErrApplicantNotFound)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoanService_Submit_ValidationOrder(t *testing.T) {
	// The ownership check runs before any domain validation: a mismatched
	// submission with an invalid amount must surface the ownership failure.
	svc := newTestLoanService(&mockLoanRepo{}, &mockUserRepo{})

	_, err := svc.Submit(context.Background(), &SubmitInput{
		ApplicantEmail: "alice@x.com",
		Amount:         -1,
		TermMonths:     0,
	}, "bob@x.com")

	assert.ErrorIs(t, err, ErrNotApplicationOwner)
}

func TestLoanService_Submit_StoreUnavailable(t *testing.T) {
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	svc := newTestLoanService(&mockLoanRepo{}, userRepo)

	_, err := svc.Submit(context.Background(), &SubmitInput{
		ApplicantEmail: "alice@x.com",
		Amount:         1_000,
		TermMonths:     12,
	}, "alice@x.com")

	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoanService_Evaluate_EndToEnd(t *testing.T) {
	tests := []struct {
		name    string
		salary  float64
		amount  float64
		term    int
		verdict domain.Verdict
	}{
		{"high salary approved", 9_000_000, 5_000_000, 24, domain.VerdictApproved},
		{"affordability boundary approved", 5_000_000, 2_000_000, 12, domain.VerdictApproved},
		{"low salary denied", 3_000_000, 6_000_000, 24, domain.VerdictDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loanRepo := &mockLoanRepo{
				getByIDFunc: func(ctx context.Context, id string) (*models.LoanApplication, error) {
					return &models.LoanApplication{
						ID:             id,
						ApplicantEmail: "alice@x.com",
						Amount:         tt.amount,
						TermMonths:     tt.term,
						Status:         domain.StatusPendingReview,
					}, nil
				},
			}
			userRepo := &mockUserRepo{
				getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					return userWithSalary(email, tt.salary), nil
				},
			}
			svc := newTestLoanService(loanRepo, userRepo)

			result, err := svc.Evaluate(context.Background(), "app-1")
			require.NoError(t, err)
			assert.Equal(t, tt.verdict, result.Verdict)
			assert.Equal(t, tt.amount, result.Amount)
			assert.Equal(t, tt.term, result.TermMonths)
		})
	}
}

func TestLoanService_Evaluate_Idempotent(t *testing.T) {
	loanRepo := &mockLoanRepo{
		getByIDFunc: func(ctx context.Context, id string) (*models.LoanApplication, error) {
			return &models.LoanApplication{
				ID:             id,
				ApplicantEmail: "alice@x.com",
				Amount:         4_000_000,
				TermMonths:     24,
				Status:         domain.StatusPendingReview,
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return userWithSalary(email, 5_000_000), nil
		},
	}
	svc := newTestLoanService(loanRepo, userRepo)

	first, err := svc.Evaluate(context.Background(), "app-1")
	require.NoError(t, err)
	second, err := svc.Evaluate(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoanService_Evaluate_ApplicationNotFound(t *testing.T) {
	loanRepo := &mockLoanRepo{
		getByIDFunc: func(ctx context.Context, id string) (*models.LoanApplication, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestLoanService(loanRepo, &mockUserRepo{})

	_, err := svc.Evaluate(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoanService_Evaluate_ApplicantUnresolved(t *testing.T) {
	loanRepo := &mockLoanRepo{
		getByIDFunc: func(ctx context.Context, id string) (*models.LoanApplication, error) {
			return &models.LoanApplication{
				ID:             id,
				ApplicantEmail: "gone@x.com",
				Amount:         1_000,
				TermMonths:     12,
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestLoanService(loanRepo, userRepo)

	_, err := svc.Evaluate(context.Background(), "app-1")
	assert.ErrorIs(t, err, ErrApplicantUnresolved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoanService_ListForReview_PassesQueueStatuses(t *testing.T) {
	var gotStatuses []string
	var gotOffset, gotLimit int
	var gotSort string

	loanRepo := &mockLoanRepo{
		listByStatusesFunc: func(ctx context.Context, statuses []string, offset, limit int, sortBy string) ([]*models.LoanApplication, int64, error) {
			gotStatuses = statuses
			gotOffset = offset
			gotLimit = limit
			gotSort = sortBy
			return []*models.LoanApplication{{ID: "a"}, {ID: "b"}}, 2, nil
		},
	}
	svc := newTestLoanService(loanRepo, &mockUserRepo{})

	apps, total, err := svc.ListForReview(context.Background(), &pagination.Params{
		Page:   2,
		Limit:  25,
		Offset: 25,
		SortBy: "amount",
	})

	require.NoError(t, err)
	assert.Len(t, apps, 2)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, domain.ReviewQueueStatuses, gotStatuses)
	assert.Equal(t, 25, gotOffset)
	assert.Equal(t, 25, gotLimit)
	assert.Equal(t, "amount", gotSort)
}
