package services

import (
	"context"
	"testing"

	"lendcore/internal/adapters/persistence/models"
	"lendcore/internal/config"
	"lendcore/internal/core/domain"
	"lendcore/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func validRegisterInput() *RegisterInput {
	return &RegisterInput{
		FirstName:  "Alice",
		LastName:   "Adams",
		Email:      "alice@x.com",
		BaseSalary: 5_000_000,
		Password:   "s3cret-pass",
	}
}

func newTestUserService(repo *mockUserRepo) *UserService {
	return NewUserService(repo, testUnderwritingConfig(config.PolicyTiered))
}

func TestUserService_Register_Success(t *testing.T) {
	var created *models.User
	repo := &mockUserRepo{
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
			return false, nil
		},
		createFunc: func(ctx context.Context, user *models.User) error {
			user.ID = 42
			created = user
			return nil
		},
	}
	svc := newTestUserService(repo)

	input := validRegisterInput()
	input.Email = "Alice@X.com"
	input.BirthDate = "1990-04-15"

	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "alice@x.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Roles)
	assert.Equal(t, []string{models.RoleUser}, user.RoleList())
	require.NotNil(t, user.BirthDate)
	assert.Equal(t, "1990-04-15", user.BirthDate.Format("2006-01-02"))
	// stored hash, never the plaintext
	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.True(t, password.Verify("s3cret-pass", user.Password))
}

func TestUserService_Register_MissingFields(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{})

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"blank first name", func(in *RegisterInput) { in.FirstName = "  " }},
		{"blank last name", func(in *RegisterInput) { in.LastName = "" }},
		{"blank email", func(in *RegisterInput) { in.Email = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegisterInput()
			tt.mutate(input)
			_, err := svc.Register(context.Background(), input)
			assert.ErrorIs(t, err, ErrMissingRequiredFields)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUserService_Register_EmailFormat(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return false, nil },
		createFunc:        func(ctx context.Context, user *models.User) error { return nil },
	})

	for _, email := range []string{"no-at-sign", "a@b", "a@b.", "a@b.toolongtld", "spaces in@x.com"} {
		input := validRegisterInput()
		input.Email = email
		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidEmailFormat, "email %q", email)
	}

	for _, email := range []string{"a@b.co", "first.last+tag@sub.domain.org"} {
		input := validRegisterInput()
		input.Email = email
		_, err := svc.Register(context.Background(), input)
		assert.NoError(t, err, "email %q", email)
	}
}

func TestUserService_Register_SalaryBounds(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return false, nil },
		createFunc:        func(ctx context.Context, user *models.User) error { return nil },
	})

	for _, salary := range []float64{0, -100, 15_000_001} {
		input := validRegisterInput()
		input.BaseSalary = salary
		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrSalaryOutOfRange, "salary %v", salary)
	}

	input := validRegisterInput()
	input.BaseSalary = 15_000_000
	_, err := svc.Register(context.Background(), input)
	assert.NoError(t, err)
}

func TestUserService_Register_WeakPassword(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{})

	input := validRegisterInput()
	input.Password = "short"
	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	})

	_, err := svc.Register(context.Background(), validRegisterInput())
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserService_Register_DuplicateKeyRace(t *testing.T) {
	// Pre-check passes but another writer gets there first; the store's
	// duplicate-key failure must surface as the same conflict.
	svc := newTestUserService(&mockUserRepo{
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
			return false, nil
		},
		createFunc: func(ctx context.Context, user *models.User) error {
			return gorm.ErrDuplicatedKey
		},
	})

	_, err := svc.Register(context.Background(), validRegisterInput())
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestUserService_Register_BadBirthDate(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return false, nil },
	})

	input := validRegisterInput()
	input.BirthDate = "15/04/1990"
	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserService_GetByEmail(t *testing.T) {
	repo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			assert.Equal(t, "alice@x.com", email)
			return userWithSalary(email, 5_000_000), nil
		},
	}
	svc := newTestUserService(repo)

	user, err := svc.GetByEmail(context.Background(), "ALICE@X.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", user.Email)
}

func TestUserService_GetByEmail_NotFound(t *testing.T) {
	svc := newTestUserService(&mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	})

	_, err := svc.GetByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, ErrUserNotFoundSvc)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_ListUsers(t *testing.T) {
	repo := &mockUserRepo{
		listFunc: func(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
			assert.Equal(t, 10, offset)
			assert.Equal(t, 10, limit)
			return []*models.User{userWithSalary("alice@x.com", 5_000_000)}, 21, nil
		},
	}
	svc := newTestUserService(repo)

	out, err := svc.ListUsers(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Len(t, out.Users, 1)
	assert.EqualValues(t, 21, out.Total)
	assert.Equal(t, 3, out.TotalPages)
	// responses never carry the password hash
	assert.Equal(t, "alice@x.com", out.Users[0].Email)
}
