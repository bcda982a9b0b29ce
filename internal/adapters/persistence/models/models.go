package models

import (
	"time"

	"osa-partnership/internal/core/domain"

	"gorm.io/gorm"
)

// DateLayout is the wire and form format of established/expiration dates
const DateLayout = "2006-01-02"

// ============================================================
// Identity
// ============================================================

// User represents users table (the identity store)
type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Username    string       `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email       string       `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Password    string       `gorm:"size:255;not null" json:"-"`
	IsSuperuser bool         `gorm:"default:false" json:"is_superuser"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
	Profile     *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ToActor builds the authorization context for this user.
// Profile must be preloaded; a nil Profile yields an actor without one.
func (u *User) ToActor() domain.Actor {
	actor := domain.Actor{
		UserID:      u.ID,
		Email:       u.Email,
		IsSuperuser: u.IsSuperuser,
	}
	if u.Profile != nil {
		p := u.Profile.ToDomain()
		actor.Profile = &p
	}
	return actor
}

// ProfileResponse DTO
type ProfileResponse struct {
	BusinessEmail  string `json:"business_email"`
	DepartmentName string `json:"department_name"`
	ContactPerson  string `json:"contact_person"`
	ContactNumber  string `json:"contact_number"`
	UserType       string `json:"user_type"`
}

// UserResponse DTO. Profile is an empty object when the user has none.
type UserResponse struct {
	ID          uint        `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	IsSuperuser bool        `json:"is_superuser"`
	IsActive    bool        `json:"is_active"`
	Profile     interface{} `json:"profile"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
		Profile:     struct{}{},
		CreatedAt:   u.CreatedAt,
	}
	if u.Profile != nil {
		resp.Profile = &ProfileResponse{
			BusinessEmail:  u.Profile.BusinessEmail,
			DepartmentName: u.Profile.DepartmentName,
			ContactPerson:  u.Profile.ContactPerson,
			ContactNumber:  u.Profile.ContactNumber,
			UserType:       u.Profile.UserType,
		}
	}
	return resp
}

// UserProfile represents user_profiles table, 1:1 with users
type UserProfile struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	BusinessEmail  string    `gorm:"size:255" json:"business_email"`
	DepartmentName string    `gorm:"size:255" json:"department_name"`
	ContactPerson  string    `gorm:"size:255" json:"contact_person"`
	ContactNumber  string    `gorm:"size:50" json:"contact_number"`
	UserType       string    `gorm:"size:20;default:'department'" json:"user_type"`
	CreatedAt      time.Time `gorm:"autoCreateTime;<-:create" json:"created_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

func (p *UserProfile) ToDomain() domain.Profile {
	return domain.Profile{
		UserID:         p.UserID,
		BusinessEmail:  p.BusinessEmail,
		DepartmentName: p.DepartmentName,
		ContactPerson:  p.ContactPerson,
		ContactNumber:  p.ContactNumber,
		UserType:       domain.UserType(p.UserType),
		CreatedAt:      p.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
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

// ============================================================
// Partnership
// ============================================================

// Department represents departments table
type Department struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	OwnerID           uint       `gorm:"index;not null" json:"owner"`
	DepartmentName    string     `gorm:"size:255;not null" json:"department_name"`
	BusinessEmail     string     `gorm:"size:255;not null" json:"business_email"`
	Email             string     `gorm:"size:254;not null" json:"email"`
	ContactPerson     string     `gorm:"size:255" json:"contact_person"`
	ContactNumber     string     `gorm:"size:50" json:"contact_number"`
	LogoPath          string     `gorm:"size:255" json:"logo_path"`
	EstablishedDate   *time.Time `gorm:"type:date" json:"established_date"`
	ExpirationDate    *time.Time `gorm:"type:date" json:"expiration_date"`
	PartnershipStatus string     `gorm:"size:20;default:'pending';index" json:"partnership_status"`
	RemarksStatus     string     `gorm:"type:text" json:"remarks_status"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;<-:create" json:"created_at"`
	LastUpdated       time.Time  `gorm:"autoUpdateTime" json:"last_updated"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Department) TableName() string {
	return "departments"
}

// StatusColor is the display color derived from the partnership status
func (d *Department) StatusColor() string {
	return domain.StatusColor(d.PartnershipStatus)
}

// ToRef returns what the authorization engine needs.
// When Owner was preloaded and came back empty the department is ownerless.
func (d *Department) ToRef() *domain.DepartmentRef {
	ref := &domain.DepartmentRef{ID: d.ID}
	if d.OwnerID != 0 && (d.Owner == nil || d.Owner.ID != 0) {
		ownerID := d.OwnerID
		ref.OwnerID = &ownerID
	}
	return ref
}

// DepartmentResponse DTO (the department wire record)
type DepartmentResponse struct {
	ID                uint      `json:"id"`
	Owner             *uint     `json:"owner"`
	UserEmail         string    `json:"user_email"`
	DepartmentName    string    `json:"department_name"`
	BusinessEmail     string    `json:"business_email"`
	Email             string    `json:"email"`
	LogoPath          *string   `json:"logo_path"`
	EstablishedDate   *string   `json:"established_date"`
	ExpirationDate    *string   `json:"expiration_date"`
	PartnershipStatus string    `json:"partnership_status"`
	StatusColor       string    `json:"status_color"`
	RemarksStatus     string    `json:"remarks_status"`
	CreatedAt         time.Time `json:"created_at"`
	LastUpdated       time.Time `json:"last_updated"`
}

func (d *Department) ToResponse() *DepartmentResponse {
	resp := &DepartmentResponse{
		ID:                d.ID,
		DepartmentName:    d.DepartmentName,
		BusinessEmail:     d.BusinessEmail,
		Email:             d.Email,
		EstablishedDate:   formatDate(d.EstablishedDate),
		ExpirationDate:    formatDate(d.ExpirationDate),
		PartnershipStatus: d.PartnershipStatus,
		StatusColor:       d.StatusColor(),
		RemarksStatus:     d.RemarksStatus,
		CreatedAt:         d.CreatedAt,
		LastUpdated:       d.LastUpdated,
	}
	if ref := d.ToRef(); ref.OwnerID != nil {
		resp.Owner = ref.OwnerID
	}
	if d.Owner != nil {
		resp.UserEmail = d.Owner.Email
	}
	if d.LogoPath != "" {
		logo := d.LogoPath
		resp.LogoPath = &logo
	}
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// ParseDate parses a YYYY-MM-DD value
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserProfile{},
		&RefreshToken{},
		&Department{},
	)
}
