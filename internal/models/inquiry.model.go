package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inquiry is immutable once created. A landlord's "tenants" are derived
// from inquiries against that landlord's properties, not stored.
type Inquiry struct {
	BaseUUIDModel
	PropertyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_inquiries_property" json:"property" validate:"required"`
	SeekerID    uuid.UUID `gorm:"type:uuid;not null;index:idx_inquiries_seeker"   json:"seeker"   validate:"required"`
	Message     string    `gorm:"type:text;not null"                              json:"message"  validate:"required"`
	ContactTime string    `gorm:"type:text"                                       json:"contactTime"`

	// Relationships
	Property *Property `gorm:"foreignKey:PropertyID" json:"propertyDetails,omitempty"`
	Seeker   *User     `gorm:"foreignKey:SeekerID"   json:"seekerDetails,omitempty"`
}

func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.PropertyID == uuid.Nil || i.SeekerID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if i.Message == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}

// TenantSummary is the derived "tenant of a landlord" view, joined from
// Inquiry through Property to the owning landlord.
type TenantSummary struct {
	UserID        uuid.UUID `json:"userId"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         *string   `json:"email,omitempty"`
	PropertyID    uuid.UUID `json:"propertyId"`
	PropertyTitle string    `json:"propertyTitle"`
	InquiredAt    time.Time `json:"inquiredAt"`
}
