package database

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/config"
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/utils/auth"
	"github.com/sahilchouksey/dept-events/utils/validation"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db  *gorm.DB
	env *config.EnviornmentVariable
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, env *config.EnviornmentVariable) *Seeder {
	return &Seeder{db: db, env: env}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Info().Msg("Starting database seeding")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Info().Msg("Database seeding completed")
	return nil
}

// SeedAdminUser creates the bootstrap admin account. Signup never grants
// ADMIN, so this is the only way the first admin comes to exist.
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info().Msg("Admin user already exists, skipping")
		return nil
	}

	if s.env.ADMIN_EMAIL == "" || s.env.ADMIN_PASSWORD == "" {
		log.Warn().Msg("ADMIN_EMAIL and ADMIN_PASSWORD not set, skipping admin user creation")
		return nil
	}

	if !model.IsValidDepartment(s.env.ADMIN_DEPARTMENT) {
		return errors.New("ADMIN_DEPARTMENT is not a known department")
	}

	passwordHash, err := auth.HashPassword(s.env.ADMIN_PASSWORD)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Name:         s.env.ADMIN_NAME,
		Email:        validation.NormalizeEmail(s.env.ADMIN_EMAIL),
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		Department:   model.Department(s.env.ADMIN_DEPARTMENT),
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Info().Str("email", admin.Email).Msg("Created admin user")
	return nil
}
