package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"osa-partnership/internal/adapters/persistence/models"
	"osa-partnership/internal/adapters/persistence/repositories"
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/pkg/pagination"
	"osa-partnership/internal/pkg/storage"

	"gorm.io/gorm"
)

// DepartmentService handles the department lifecycle
type DepartmentService struct {
	deptRepo repositories.DepartmentRepository
	userRepo repositories.UserRepository
	logos    *storage.LogoStore
}

// NewDepartmentService creates a new department service
func NewDepartmentService(
	deptRepo repositories.DepartmentRepository,
	userRepo repositories.UserRepository,
	logos *storage.LogoStore,
) *DepartmentService {
	return &DepartmentService{
		deptRepo: deptRepo,
		userRepo: userRepo,
		logos:    logos,
	}
}

// Get returns a department the actor may view
func (s *DepartmentService) Get(ctx context.Context, actor domain.Actor, id uint) (*models.Department, error) {
	dept, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(actor, domain.ActionViewDepartment, dept.ToRef()).Err(domain.ActionViewDepartment); err != nil {
		return nil, err
	}
	return dept, nil
}

// List lists every department for administrators and owned departments otherwise.
// A zero Limit returns everything.
func (s *DepartmentService) List(ctx context.Context, actor domain.Actor, p pagination.Params, status string) ([]*models.Department, int64, error) {
	var filter repositories.DepartmentFilter
	if ownerOnly, ownerID := domain.ListScope(actor); ownerOnly {
		filter.OwnerID = &ownerID
	}
	if status != "" {
		if !domain.PartnershipStatus(status).IsValid() {
			return nil, 0, domain.NewValidationError("status", msgInvalidStatus)
		}
		filter.Status = status
	}

	depts, total, err := s.deptRepo.List(ctx, filter, p.Offset(), p.Limit)
	if err != nil {
		return nil, 0, domain.PersistenceError("list departments", err)
	}
	return depts, total, nil
}

// ListOwned lists the departments the actor owns
func (s *DepartmentService) ListOwned(ctx context.Context, actor domain.Actor) ([]*models.Department, error) {
	depts, err := s.deptRepo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, domain.PersistenceError("list owned departments", err)
	}
	return depts, nil
}

// Create adds a department owned by the actor. Administrators may name another owner.
func (s *DepartmentService) Create(ctx context.Context, actor domain.Actor, input *DepartmentInput, logo *LogoUpload) (*models.Department, error) {
	dept := &models.Department{
		OwnerID:           actor.UserID,
		PartnershipStatus: string(domain.StatusPending),
	}

	if err := s.assignOwner(ctx, actor, dept, input.Owner); err != nil {
		return nil, err
	}
	if err := applyDepartmentInput(dept, input); err != nil {
		return nil, err
	}
	if err := validateDepartment(dept); err != nil {
		return nil, err
	}

	if logo != nil {
		path, err := s.saveLogo(logo)
		if err != nil {
			return nil, err
		}
		dept.LogoPath = path
	}

	if err := s.deptRepo.Create(ctx, dept); err != nil {
		s.discardLogo(dept.LogoPath)
		return nil, storeError("create department", err, nil)
	}

	log.Printf("✅ Department created: %d (owner %d)", dept.ID, dept.OwnerID)
	return s.load(ctx, dept.ID)
}

// Edit applies input to a department. A new logo replaces and removes the old file.
func (s *DepartmentService) Edit(ctx context.Context, actor domain.Actor, id uint, input *DepartmentInput, logo *LogoUpload) (*models.Department, error) {
	dept, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.Authorize(actor, domain.ActionEditDepartment, dept.ToRef()).Err(domain.ActionEditDepartment); err != nil {
		return nil, err
	}

	if input.Owner != nil && *input.Owner != dept.OwnerID {
		if err := s.assignOwner(ctx, actor, dept, input.Owner); err != nil {
			return nil, err
		}
	}
	if err := applyDepartmentInput(dept, input); err != nil {
		return nil, err
	}
	if err := validateDepartment(dept); err != nil {
		return nil, err
	}

	oldLogo := dept.LogoPath
	if logo != nil {
		path, err := s.saveLogo(logo)
		if err != nil {
			return nil, err
		}
		dept.LogoPath = path
	}

	if err := s.deptRepo.Update(ctx, dept); err != nil {
		if dept.LogoPath != oldLogo {
			s.discardLogo(dept.LogoPath)
		}
		return nil, storeError("update department", err, nil)
	}

	if dept.LogoPath != oldLogo {
		s.discardLogo(oldLogo)
	}

	return s.load(ctx, dept.ID)
}

// ReviewRemarks updates only the remarks of a department
func (s *DepartmentService) ReviewRemarks(ctx context.Context, actor domain.Actor, id uint, remarks string) (*models.Department, error) {
	if err := domain.Authorize(actor, domain.ActionReviewRemarks, nil).Err(domain.ActionReviewRemarks); err != nil {
		return nil, err
	}

	if err := s.deptRepo.UpdateRemarks(ctx, id, remarks); err != nil {
		return nil, storeError("update remarks", err, domain.ErrDepartmentNotFound)
	}
	return s.load(ctx, id)
}

// Delete removes a department and its logo
func (s *DepartmentService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	dept, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if err := domain.Authorize(actor, domain.ActionDeleteDepartment, dept.ToRef()).Err(domain.ActionDeleteDepartment); err != nil {
		return err
	}

	if err := s.deptRepo.Delete(ctx, id); err != nil {
		return domain.PersistenceError("delete department", err)
	}
	s.discardLogo(dept.LogoPath)

	log.Printf("✅ Department %d deleted by %d", id, actor.UserID)
	return nil
}

func (s *DepartmentService) load(ctx context.Context, id uint) (*models.Department, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get department", err, domain.ErrDepartmentNotFound)
	}
	return dept, nil
}

// assignOwner hands the department to owner. Only administrators may pick
// someone other than themselves.
func (s *DepartmentService) assignOwner(ctx context.Context, actor domain.Actor, dept *models.Department, owner *uint) error {
	if owner == nil || *owner == actor.UserID {
		if owner != nil {
			dept.OwnerID = *owner
		}
		return nil
	}

	if !domain.IsAdminTier(actor) {
		return &domain.AuthorizationError{
			Action: domain.ActionEditDepartment,
			Reason: "Only administrators can assign a department to another user.",
		}
	}

	if _, err := s.userRepo.GetByID(ctx, *owner); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewValidationError("owner", "Owner does not exist")
		}
		return domain.PersistenceError("get owner", err)
	}

	dept.OwnerID = *owner
	dept.Owner = nil
	return nil
}

func (s *DepartmentService) saveLogo(logo *LogoUpload) (string, error) {
	path, err := s.logos.Save(logo.Filename, logo.Size, logo.Content)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return "", domain.NewValidationError("logo_path", "Upload a valid image (png, jpg, gif or webp)")
	case errors.Is(err, storage.ErrTooLarge):
		return "", domain.NewValidationError("logo_path", "Logo must be 5MB or smaller")
	case err != nil:
		return "", domain.PersistenceError("save logo", err)
	}
	return path, nil
}

func (s *DepartmentService) discardLogo(path string) {
	if err := s.logos.Remove(path); err != nil {
		log.Printf("⚠️ Failed to remove logo %s: %v", path, err)
	}
}

const msgInvalidStatus = "Select a valid partnership status"

// applyDepartmentInput copies supplied fields onto dept
func applyDepartmentInput(dept *models.Department, input *DepartmentInput) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&dept.DepartmentName, input.DepartmentName)
	set(&dept.BusinessEmail, input.BusinessEmail)
	set(&dept.Email, input.Email)
	set(&dept.ContactPerson, input.ContactPerson)
	set(&dept.ContactNumber, input.ContactNumber)
	set(&dept.PartnershipStatus, input.PartnershipStatus)
	if input.RemarksStatus != nil {
		dept.RemarksStatus = *input.RemarksStatus
	}

	if err := setDate(&dept.EstablishedDate, "established_date", input.EstablishedDate); err != nil {
		return err
	}
	return setDate(&dept.ExpirationDate, "expiration_date", input.ExpirationDate)
}

// setDate overwrites dst only when a non-empty value was supplied
func setDate(dst **time.Time, field string, value *string) error {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	t, err := models.ParseDate(strings.TrimSpace(*value))
	if err != nil {
		return domain.NewValidationError(field, "Enter a valid date (YYYY-MM-DD)")
	}
	*dst = &t
	return nil
}

func validateDepartment(dept *models.Department) error {
	if dept.DepartmentName == "" {
		return domain.NewValidationError("department_name", "This field is required")
	}
	if dept.BusinessEmail != "" {
		if err := validateEmail("business_email", dept.BusinessEmail); err != nil {
			return err
		}
	}
	if dept.Email == "" {
		return domain.NewValidationError("email", "This field is required")
	}
	if err := validateEmail("email", dept.Email); err != nil {
		return err
	}
	if !domain.PartnershipStatus(dept.PartnershipStatus).IsValid() {
		return domain.NewValidationError("partnership_status", msgInvalidStatus)
	}
	if dept.EstablishedDate != nil && dept.ExpirationDate != nil && dept.ExpirationDate.Before(*dept.EstablishedDate) {
		return domain.NewValidationError("expiration_date", "Expiration date cannot be before established date")
	}
	return nil
}
