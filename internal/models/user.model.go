package models

import (
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleTenant   UserRole = "tenant"
	RoleLandlord UserRole = "landlord"
)

func (r UserRole) Valid() bool {
	return r == RoleTenant || r == RoleLandlord
}

type User struct {
	BaseUUIDModel
	Name           string   `gorm:"type:text;not null"      json:"name"           validate:"required"`
	Phone          string   `gorm:"type:text;uniqueIndex"   json:"phone"          validate:"required"`
	Email          *string  `gorm:"type:text;uniqueIndex"   json:"email,omitempty"`
	Role           UserRole `gorm:"type:text;not null"      json:"role"           validate:"required"`
	PasswordHash   string   `gorm:"type:text;not null"      json:"-"`
	ProfilePicture string   `gorm:"type:text"               json:"profilePicture"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Name == "" || u.Phone == "" {
		return gorm.ErrInvalidValue
	}
	if !u.Role.Valid() {
		return gorm.ErrInvalidValue
	}
	return nil
}

// UserProfile represents public user profile information
type UserProfile struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Email          *string `json:"email,omitempty"`
	Role           string  `json:"role"`
	ProfilePicture string  `json:"profilePicture"`
}

// ToProfile converts a User to a UserProfile (public information only)
func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:             u.ID.String(),
		Name:           u.Name,
		Phone:          u.Phone,
		Email:          u.Email,
		Role:           string(u.Role),
		ProfilePicture: u.ProfilePicture,
	}
}

func (u *User) IsLandlord() bool {
	return u.Role == RoleLandlord
}

func (u *User) IsTenant() bool {
	return u.Role == RoleTenant
}
