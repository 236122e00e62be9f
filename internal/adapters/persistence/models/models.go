package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleUser is the role every account carries after registration.
const RoleUser = "USER"

// User represents the users table. Emails are stored lowercased; the unique
// index is what ultimately enforces uniqueness under concurrent
// registration.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FirstName  string         `gorm:"size:100;not null" json:"first_name"`
	LastName   string         `gorm:"size:100;not null" json:"last_name"`
	BirthDate  *time.Time     `json:"birth_date"`
	Address    string         `gorm:"size:255" json:"address"`
	Phone      string         `gorm:"size:30" json:"phone"`
	Email      string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	BaseSalary float64        `gorm:"not null" json:"base_salary"`
	Password   string         `gorm:"size:255;not null" json:"-"`
	Roles      string         `gorm:"size:100;default:'USER'" json:"roles"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// RoleList returns the user's role names as a slice. Roles are stored as a
// comma-separated column; an empty column still yields {USER}.
func (u *User) RoleList() []string {
	if strings.TrimSpace(u.Roles) == "" {
		return []string{RoleUser}
	}
	parts := strings.Split(u.Roles, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if r := strings.TrimSpace(p); r != "" {
			roles = append(roles, r)
		}
	}
	if len(roles) == 0 {
		return []string{RoleUser}
	}
	return roles
}

// HasRole reports whether the user carries the given role name.
func (u *User) HasRole(role string) bool {
	for _, r := range u.RoleList() {
		if r == role {
			return true
		}
	}
	return false
}

// UserResponse DTO
type UserResponse struct {
	ID         uint       `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Address    string     `json:"address,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Email      string     `json:"email"`
	BaseSalary float64    `json:"base_salary"`
	Roles      []string   `json:"roles"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		BirthDate:  u.BirthDate,
		Address:    u.Address,
		Phone:      u.Phone,
		Email:      u.Email,
		BaseSalary: u.BaseSalary,
		Roles:      u.RoleList(),
		CreatedAt:  u.CreatedAt,
	}
}

// LoanApplication represents the loan_applications table. The applicant is
// referenced by email value, not by a foreign key: users and applications
// live in independently owned stores and are re-resolved on every read.
type LoanApplication struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ApplicantEmail string    `gorm:"index;size:100;not null" json:"applicant_email"`
	Amount         float64   `gorm:"not null" json:"amount"`
	TermMonths     int       `gorm:"not null" json:"term_months"`
	Status         string    `gorm:"index;size:30;not null" json:"status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

// BeforeCreate assigns the server-side identifier.
func (a *LoanApplication) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// RefreshToken represents the refresh_tokens table.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// AutoMigrate runs auto migration for all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&LoanApplication{},
	)
}
