package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Favorite holds one document per seeker with the set of favorited
// property ids. The record is created lazily on first add and is never
// deleted, only emptied.
type Favorite struct {
	BaseUUIDModel
	Seeker     uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"seeker" validate:"required"`
	Properties datatypes.JSONSlice[string] `gorm:"type:jsonb"                     json:"properties"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.Seeker == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if f.Properties == nil {
		f.Properties = datatypes.NewJSONSlice([]string{})
	}
	return nil
}

func (f *Favorite) Has(propertyID uuid.UUID) bool {
	id := propertyID.String()
	for _, p := range f.Properties {
		if p == id {
			return true
		}
	}
	return false
}

func (f *Favorite) Add(propertyID uuid.UUID) {
	f.Properties = append(f.Properties, propertyID.String())
}

// Remove drops the property id from the set. Removing a non-member is a
// no-op.
func (f *Favorite) Remove(propertyID uuid.UUID) {
	id := propertyID.String()
	kept := make([]string, 0, len(f.Properties))
	for _, p := range f.Properties {
		if p != id {
			kept = append(kept, p)
		}
	}
	f.Properties = kept
}
