package services

import "io"

// RegisterInput is the self-registration form
type RegisterInput struct {
	BusinessEmail   string `json:"business_email" form:"business_email"`
	DepartmentName  string `json:"department_name" form:"department_name"`
	ContactPerson   string `json:"contact_person" form:"contact_person"`
	ContactNumber   string `json:"contact_number" form:"contact_number"`
	Email           string `json:"email" form:"email"`
	ConfirmEmail    string `json:"confirm_email" form:"confirm_email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// CreateUserInput is used by administrators to create an identity with its profile
type CreateUserInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	ConfirmEmail    string `json:"confirm_email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	BusinessEmail   string `json:"business_email"`
	DepartmentName  string `json:"department_name"`
	ContactPerson   string `json:"contact_person"`
	ContactNumber   string `json:"contact_number"`
	UserType        string `json:"user_type"`
}

// UpdateUserInput holds the fields of a user update. Nil means unchanged.
// UserType and IsActive are reserved to administrators.
type UpdateUserInput struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	BusinessEmail  *string `json:"business_email"`
	DepartmentName *string `json:"department_name"`
	ContactPerson  *string `json:"contact_person"`
	ContactNumber  *string `json:"contact_number"`
	UserType       *string `json:"user_type"`
	IsActive       *bool   `json:"is_active"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// DepartmentInput holds the editable department fields. Nil means unchanged;
// empty dates are treated as not supplied. Owner is honoured for administrators only.
type DepartmentInput struct {
	Owner             *uint   `json:"owner" form:"owner"`
	DepartmentName    *string `json:"department_name" form:"department_name"`
	BusinessEmail     *string `json:"business_email" form:"business_email"`
	Email             *string `json:"email" form:"email"`
	ContactPerson     *string `json:"contact_person" form:"contact_person"`
	ContactNumber     *string `json:"contact_number" form:"contact_number"`
	PartnershipStatus *string `json:"partnership_status" form:"partnership_status"`
	RemarksStatus     *string `json:"remarks_status" form:"remarks_status"`
	EstablishedDate   *string `json:"established_date" form:"established_date"`
	ExpirationDate    *string `json:"expiration_date" form:"expiration_date"`
}

// LogoUpload is an uploaded logo file
type LogoUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}
