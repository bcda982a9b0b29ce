package services

import (
	"context"
	"errors"
	"fmt"

	"osa-partnership/internal/adapters/persistence/repositories"
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/pkg/password"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

// Validation messages shared by registration and user creation
const (
	msgEmailsMismatch    = "Emails do not match"
	msgPasswordsMismatch = "Passwords do not match"
	msgEmailRegistered   = "Email already registered"
	msgEmailInvalid      = "Enter a valid email address"
	msgPasswordTooShort  = "Password must be at least 8 characters"
)

// validateNewIdentity checks a new identity in a fixed order and reports the
// first violated rule. Nothing is written.
func validateNewIdentity(ctx context.Context, users repositories.UserRepository, email, confirmEmail, pw, confirmPw string) error {
	if email != confirmEmail {
		return domain.NewValidationError("confirm_email", msgEmailsMismatch)
	}
	if pw != confirmPw {
		return domain.NewValidationError("confirm_password", msgPasswordsMismatch)
	}

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return domain.PersistenceError("check email", err)
	}
	if exists {
		return domain.NewValidationError("email", msgEmailRegistered)
	}

	if err := validateEmail("email", email); err != nil {
		return err
	}
	if !password.ValidatePassword(pw) {
		return domain.NewValidationError("password", msgPasswordTooShort)
	}
	return nil
}

func validateEmail(field, value string) error {
	if err := validate.Var(value, "required,email"); err != nil {
		return domain.NewValidationError(field, msgEmailInvalid)
	}
	return nil
}

// usernameAttempts bounds how often a signup is retried when a concurrent
// insert takes the generated username first
const usernameAttempts = 3

// withUsernameRetry runs create again when it fails on a unique index that
// the email does not explain. A taken email is reported as a ValidationError.
func withUsernameRetry(ctx context.Context, users repositories.UserRepository, email string, create func() error) error {
	var err error
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		if err = create(); !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}

		taken, lookupErr := users.ExistsByEmail(ctx, email)
		if lookupErr != nil {
			return err
		}
		if taken {
			return domain.NewValidationError("email", msgEmailRegistered)
		}
	}
	return err
}

// storeError maps a repository error onto the domain taxonomy
func storeError(op string, err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicateEntry)
	default:
		return domain.PersistenceError(op, err)
	}
}
