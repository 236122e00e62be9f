package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"lendcore/internal/adapters/persistence/models"
	"lendcore/internal/adapters/persistence/repositories"
	"lendcore/internal/config"
	"lendcore/internal/core/domain"
	"lendcore/internal/pkg/password"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrMissingRequiredFields  = fmt.Errorf("%w: first name, last name, email, and base salary are required", domain.ErrInvalidInput)
	ErrInvalidEmailFormat     = fmt.Errorf("%w: email format", domain.ErrInvalidInput)
	ErrSalaryOutOfRange       = fmt.Errorf("%w: base salary", domain.ErrInvalidInput)
	ErrWeakPassword           = fmt.Errorf("%w: password too short", domain.ErrInvalidInput)
	ErrEmailAlreadyRegistered = fmt.Errorf("%w: email already registered", domain.ErrConflict)
	ErrUserNotFoundSvc        = fmt.Errorf("%w: user", domain.ErrNotFound)
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

func parseBirthDate(s string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UserService handles user registration and lookup
type UserService struct {
	userRepo repositories.UserRepository
	limits   config.UnderwritingConfig
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, limits config.UnderwritingConfig) *UserService {
	return &UserService{
		userRepo: userRepo,
		limits:   limits,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	BirthDate  string  `json:"birth_date,omitempty"`
	Address    string  `json:"address,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Email      string  `json:"email" validate:"required"`
	BaseSalary float64 `json:"base_salary" validate:"required"`
	Password   string  `json:"password" validate:"required"`
}

// Register validates and creates a new user with the default USER role.
// The pre-check on email existence can race another writer; a duplicate-key
// failure from the store is translated to the same conflict error.
func (s *UserService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	if strings.TrimSpace(input.FirstName) == "" ||
		strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.Email) == "" {
		return nil, ErrMissingRequiredFields
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmailFormat
	}

	if input.BaseSalary <= 0 || input.BaseSalary > s.limits.MaxBaseSalary {
		return nil, ErrSalaryOutOfRange
	}

	if !password.Validate(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if exists {
		return nil, ErrEmailAlreadyRegistered
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Address:    strings.TrimSpace(input.Address),
		Phone:      strings.TrimSpace(input.Phone),
		Email:      email,
		BaseSalary: input.BaseSalary,
		Password:   hashedPassword,
		Roles:      models.RoleUser,
	}

	if birth := strings.TrimSpace(input.BirthDate); birth != "" {
		t, err := parseBirthDate(birth)
		if err != nil {
			return nil, fmt.Errorf("%w: birth date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		user.BirthDate = t
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent registration.
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	log.Printf("✅ User registered: %s", user.Email)
	return user, nil
}

// GetByEmail looks a user up by email, normalized to lower case.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return user, nil
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users      []*models.UserResponse `json:"users"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// ListUsers lists all users with pagination
func (s *UserService) ListUsers(ctx context.Context, page, limit int) (*ListUsersOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit

	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	userResponses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = user.ToResponse()
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListUsersOutput{
		Users:      userResponses,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}
