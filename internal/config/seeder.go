package config

import (
	"context"
	"errors"
	"fmt"
	"log"

	"osa-partnership/internal/adapters/persistence/models"
	"osa-partnership/internal/adapters/persistence/repositories"
	"osa-partnership/internal/pkg/password"

	"gorm.io/gorm"
)

// Default department created when the store holds none
const (
	DefaultDepartmentName  = "Default Department"
	DefaultDepartmentEmail = "default@example.com"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg SeedConfig) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders. Failures are logged, never fatal.
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedSuperuser(ctx); err != nil {
		log.Printf("⚠️ Superuser seeder skipped: %v", err)
	}

	if s.cfg.DefaultDepartment {
		if err := s.seedDefaultDepartment(ctx); err != nil {
			log.Printf("⚠️ Default department seeder skipped: %v", err)
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSuperuser creates the configured superuser when it does not exist yet
func (s *Seeder) seedSuperuser(ctx context.Context) error {
	if s.cfg.SuperuserEmail == "" {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", s.cfg.SuperuserEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(s.cfg.SuperuserPassword)
	if err != nil {
		return err
	}

	users := repositories.NewUserRepository(s.db)
	username, err := repositories.NextUsername(ctx, users, s.cfg.SuperuserEmail)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:    username,
		Email:       s.cfg.SuperuserEmail,
		Password:    hashed,
		IsSuperuser: true,
		IsActive:    true,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Superuser created: %s", user.Email)
	return nil
}

// seedDefaultDepartment creates one placeholder department, owned by the
// first superuser, when no department exists at all
func (s *Seeder) seedDefaultDepartment(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Department{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var owner models.User
	err := s.db.WithContext(ctx).Where("is_superuser = ?", true).Order("id ASC").First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("no superuser to own the default department")
	}
	if err != nil {
		return err
	}

	dept := &models.Department{
		OwnerID:           owner.ID,
		DepartmentName:    DefaultDepartmentName,
		BusinessEmail:     DefaultDepartmentEmail,
		Email:             DefaultDepartmentEmail,
		PartnershipStatus: "pending",
	}
	if err := s.db.WithContext(ctx).Omit("Owner").Create(dept).Error; err != nil {
		return err
	}

	log.Printf("✅ Default department created (ID: %d)", dept.ID)
	return nil
}
