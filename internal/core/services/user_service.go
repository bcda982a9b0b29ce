package services

import (
	"context"
	"errors"
	"log"

	"osa-partnership/internal/adapters/persistence/models"
	"osa-partnership/internal/adapters/persistence/repositories"
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/pkg/pagination"
	"osa-partnership/internal/pkg/password"
	"osa-partnership/internal/pkg/storage"

	"github.com/samber/lo"
)

// UserService handles identity management
type UserService struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	deptRepo         repositories.DepartmentRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	tx               repositories.Transactor
	logos            *storage.LogoStore
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	deptRepo repositories.DepartmentRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	tx repositories.Transactor,
	logos *storage.LogoStore,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		deptRepo:         deptRepo,
		refreshTokenRepo: refreshTokenRepo,
		tx:               tx,
		logos:            logos,
	}
}

// ListUsers lists every user for administrators and only the caller otherwise
func (s *UserService) ListUsers(ctx context.Context, actor domain.Actor, p pagination.Params) (*pagination.Page[*models.UserResponse], error) {
	if !domain.Authorize(actor, domain.ActionManageUsers, nil).Allowed {
		user, err := s.userRepo.GetByID(ctx, actor.UserID)
		if err != nil {
			return nil, storeError("list users", err, domain.ErrUserNotFound)
		}
		return pagination.NewPage([]*models.UserResponse{user.ToResponse()}, p, 1), nil
	}

	users, total, err := s.userRepo.List(ctx, p.Offset(), p.Limit)
	if err != nil {
		return nil, domain.PersistenceError("list users", err)
	}

	results := lo.Map(users, func(u *models.User, _ int) *models.UserResponse {
		return u.ToResponse()
	})
	return pagination.NewPage(results, p, total), nil
}

// GetUser returns a user to itself or to an administrator
func (s *UserService) GetUser(ctx context.Context, actor domain.Actor, id uint) (*models.UserResponse, error) {
	if err := s.canAccess(actor, id); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get user", err, domain.ErrUserNotFound)
	}
	return user.ToResponse(), nil
}

// CreateUser creates an identity and its profile in one transaction
func (s *UserService) CreateUser(ctx context.Context, actor domain.Actor, input *CreateUserInput) (*models.UserResponse, error) {
	if err := domain.Authorize(actor, domain.ActionManageUsers, nil).Err(domain.ActionManageUsers); err != nil {
		return nil, err
	}

	if err := validateNewIdentity(ctx, s.userRepo, input.Email, input.ConfirmEmail, input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}

	userType := domain.UserTypeDepartment
	if input.UserType != "" {
		userType = domain.UserType(input.UserType)
		if !userType.IsValid() {
			return nil, domain.NewValidationError("user_type", "Select a valid user type")
		}
	}

	if input.Username != "" {
		exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
		if err != nil {
			return nil, domain.PersistenceError("check username", err)
		}
		if exists {
			return nil, domain.NewValidationError("username", "Username already taken")
		}
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	create := func() error {
		return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			username := input.Username
			if username == "" {
				var err error
				if username, err = repositories.NextUsername(ctx, s.userRepo, input.Email); err != nil {
					return err
				}
			}

			user = &models.User{
				Username: username,
				Email:    input.Email,
				Password: hashedPassword,
				IsActive: true,
			}
			if err := s.userRepo.Create(ctx, user); err != nil {
				return err
			}

			user.Profile = &models.UserProfile{
				UserID:         user.ID,
				BusinessEmail:  input.BusinessEmail,
				DepartmentName: input.DepartmentName,
				ContactPerson:  input.ContactPerson,
				ContactNumber:  input.ContactNumber,
				UserType:       string(userType),
			}
			return s.profileRepo.Create(ctx, user.Profile)
		})
	}

	// only a generated username is worth retrying
	if input.Username == "" {
		err = withUsernameRetry(ctx, s.userRepo, input.Email, create)
	} else {
		err = create()
	}
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return nil, err
		}
		return nil, storeError("create user", err, nil)
	}

	log.Printf("✅ User created by %d: %s", actor.UserID, user.Email)
	return user.ToResponse(), nil
}

// UpdateUser applies a partial update. Administrators may also change the
// user type and active flag, except their own user type.
func (s *UserService) UpdateUser(ctx context.Context, actor domain.Actor, id uint, input *UpdateUserInput) (*models.UserResponse, error) {
	if err := s.canAccess(actor, id); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("update user", err, domain.ErrUserNotFound)
	}

	currentType := ""
	if user.Profile != nil {
		currentType = user.Profile.UserType
	}
	typeChange := input.UserType != nil && *input.UserType != currentType
	activeChange := input.IsActive != nil && *input.IsActive != user.IsActive

	if (typeChange || activeChange) && !domain.Authorize(actor, domain.ActionManageUsers, nil).Allowed {
		return nil, &domain.AuthorizationError{
			Action: domain.ActionManageUsers,
			Reason: "Only administrators can change user type or status.",
		}
	}
	if typeChange && id == actor.UserID {
		return nil, domain.NewValidationError("user_type", "You cannot change your own user type")
	}

	if input.Email != nil && *input.Email != user.Email {
		if err := validateEmail("email", *input.Email); err != nil {
			return nil, err
		}
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, domain.PersistenceError("check email", err)
		}
		if exists {
			return nil, domain.NewValidationError("email", msgEmailRegistered)
		}
		user.Email = *input.Email
	}

	if input.Username != nil && *input.Username != user.Username {
		if *input.Username == "" {
			return nil, domain.NewValidationError("username", "Username is required")
		}
		exists, err := s.userRepo.ExistsByUsername(ctx, *input.Username)
		if err != nil {
			return nil, domain.PersistenceError("check username", err)
		}
		if exists {
			return nil, domain.NewValidationError("username", "Username already taken")
		}
		user.Username = *input.Username
	}

	if activeChange {
		if id == actor.UserID && !*input.IsActive {
			return nil, domain.NewValidationError("is_active", "You cannot deactivate your own account")
		}
		user.IsActive = *input.IsActive
	}

	profile := user.Profile
	if profile == nil {
		profile = &models.UserProfile{UserID: user.ID, UserType: string(domain.UserTypeDepartment)}
	}
	profileChanged := user.Profile == nil && hasProfileFields(input)
	assign := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			profileChanged = true
		}
	}
	assign(&profile.BusinessEmail, input.BusinessEmail)
	assign(&profile.DepartmentName, input.DepartmentName)
	assign(&profile.ContactPerson, input.ContactPerson)
	assign(&profile.ContactNumber, input.ContactNumber)
	if typeChange {
		if !domain.UserType(*input.UserType).IsValid() {
			return nil, domain.NewValidationError("user_type", "Select a valid user type")
		}
		assign(&profile.UserType, input.UserType)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		if !profileChanged {
			return nil
		}
		if profile.ID == 0 {
			return s.profileRepo.Create(ctx, profile)
		}
		return s.profileRepo.Update(ctx, profile)
	})
	if err != nil {
		return nil, storeError("update user", err, nil)
	}

	if profile.ID != 0 {
		user.Profile = profile
	}
	return user.ToResponse(), nil
}

// DeleteUser removes an identity with its profile, departments and sessions.
// Only superusers may do this, and never to themselves.
func (s *UserService) DeleteUser(ctx context.Context, actor domain.Actor, id uint) error {
	if err := domain.Authorize(actor, domain.ActionDeleteIdentity, nil).Err(domain.ActionDeleteIdentity); err != nil {
		return err
	}
	if id == actor.UserID {
		return domain.ErrCannotDeleteSelf
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return storeError("delete user", err, domain.ErrUserNotFound)
	}

	var logos []string
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		depts, err := s.deptRepo.ListByOwner(ctx, id)
		if err != nil {
			return err
		}
		logos = lo.FilterMap(depts, func(d *models.Department, _ int) (string, bool) {
			return d.LogoPath, d.LogoPath != ""
		})

		if err := s.deptRepo.DeleteByOwner(ctx, id); err != nil {
			return err
		}
		if err := s.profileRepo.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		if err := s.refreshTokenRepo.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		return s.userRepo.Delete(ctx, id)
	})
	if err != nil {
		return domain.PersistenceError("delete user", err)
	}

	for _, logo := range logos {
		if err := s.logos.Remove(logo); err != nil {
			log.Printf("⚠️ Failed to remove logo %s: %v", logo, err)
		}
	}

	log.Printf("✅ User %d deleted by %d (%d departments)", id, actor.UserID, len(logos))
	return nil
}

// ChangePassword changes the caller's password and ends its other sessions
func (s *UserService) ChangePassword(ctx context.Context, actor domain.Actor, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return storeError("change password", err, domain.ErrUserNotFound)
	}

	if !password.Verify(input.OldPassword, user.Password) {
		return domain.NewValidationError("old_password", "Old password is incorrect")
	}
	if !password.ValidatePassword(input.NewPassword) {
		return domain.NewValidationError("new_password", msgPasswordTooShort)
	}

	hashedPassword, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashedPassword

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		return s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID)
	})
	if err != nil {
		return domain.PersistenceError("change password", err)
	}
	return nil
}

// canAccess allows a user to reach its own record and administrators to reach any
func (s *UserService) canAccess(actor domain.Actor, id uint) error {
	if actor.UserID == id {
		return nil
	}
	return domain.Authorize(actor, domain.ActionManageUsers, nil).Err(domain.ActionManageUsers)
}

func hasProfileFields(input *UpdateUserInput) bool {
	return input.BusinessEmail != nil || input.DepartmentName != nil ||
		input.ContactPerson != nil || input.ContactNumber != nil
}
