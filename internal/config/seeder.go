package config

import (
	"log"
	"strings"

	"lendcore/internal/adapters/persistence/models"
	"lendcore/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the default admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. Skipped when either is unset or an admin already exists;
// production admins should be created through a secure process.
func (s *Seeder) seedAdminUser() error {
	email := strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", "")))
	plain := getEnv("ADMIN_PASSWORD", "")
	if email == "" || plain == "" {
		log.Println("⚠️ Skipping admin seed: ADMIN_EMAIL / ADMIN_PASSWORD not set")
		return nil
	}

	var count int64
	s.db.Model(&models.User{}).Where("roles LIKE ?", "%ADMIN%").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := &models.User{
		FirstName:  "System",
		LastName:   "Administrator",
		Email:      email,
		BaseSalary: 1,
		Password:   hashedPassword,
		Roles:      "USER,ADMIN",
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}
