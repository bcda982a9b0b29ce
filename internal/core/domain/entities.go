package domain

import "time"

// UserType is the role tag stored on a profile
type UserType string

const (
	UserTypeDepartment UserType = "department"
	UserTypeAdmin      UserType = "admin"
	UserTypeOwner      UserType = "owner"
)

// IsValid reports whether t is one of the known profile tags
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeDepartment, UserTypeAdmin, UserTypeOwner:
		return true
	}
	return false
}

// PartnershipStatus is the lifecycle status of a department
type PartnershipStatus string

const (
	StatusActive   PartnershipStatus = "active"
	StatusInactive PartnershipStatus = "inactive"
	StatusPending  PartnershipStatus = "pending"
)

// IsValid reports whether s is one of the known statuses
func (s PartnershipStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// StatusColor maps a partnership status to its display color.
// Unknown values (legacy rows) fall back to black.
func StatusColor(status string) string {
	switch PartnershipStatus(status) {
	case StatusActive:
		return "green"
	case StatusInactive:
		return "red"
	case StatusPending:
		return "orange"
	default:
		return "black"
	}
}

// Profile is the role/contact metadata attached 1:1 to a user
type Profile struct {
	UserID         uint
	BusinessEmail  string
	DepartmentName string
	ContactPerson  string
	ContactNumber  string
	UserType       UserType
	CreatedAt      time.Time
}

// Actor is the identity making a request.
// Profile is nil when the user never received one.
type Actor struct {
	UserID      uint
	Email       string
	IsSuperuser bool
	Profile     *Profile
}

// DepartmentRef is the part of a department the authorization engine needs.
// A nil OwnerID marks a department whose owner no longer exists.
type DepartmentRef struct {
	ID      uint
	OwnerID *uint
}

// IsOwnedBy reports whether userID owns the department
func (d DepartmentRef) IsOwnedBy(userID uint) bool {
	return d.OwnerID != nil && userID != 0 && *d.OwnerID == userID
}

// LandingKind is where an actor is routed after authentication
type LandingKind string

const (
	LandingAdmin      LandingKind = "admin"
	LandingDepartment LandingKind = "department"
	LandingDashboard  LandingKind = "dashboard"
)

// Landing is the result of login dispatch
type Landing struct {
	Kind         LandingKind `json:"kind"`
	DepartmentID uint        `json:"department_id,omitempty"`
}
