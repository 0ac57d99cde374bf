package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PropertyStatus string

const (
	PropertyAvailable   PropertyStatus = "Available"
	PropertyOccupied    PropertyStatus = "Occupied"
	PropertyMaintenance PropertyStatus = "Maintenance"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyAvailable, PropertyOccupied, PropertyMaintenance:
		return true
	}
	return false
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PropertyContact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type PropertyPolicies struct {
	PetsAllowed    bool   `json:"petsAllowed"`
	SmokingAllowed bool   `json:"smokingAllowed"`
	LeaseTerm      string `json:"leaseTerm,omitempty"`
}

type Property struct {
	BaseUUIDModel
	Title        string                               `gorm:"type:text;not null"                              json:"title"        validate:"required"`
	Description  string                               `gorm:"type:text"                                       json:"description"`
	Address      datatypes.JSONType[Address]          `gorm:"type:jsonb"                                      json:"address"`
	Location     datatypes.JSONType[GeoPoint]         `gorm:"type:jsonb"                                      json:"location"`
	Price        decimal.Decimal                      `gorm:"type:decimal(12,2)"                              json:"price"`
	PropertyType string                               `gorm:"type:text"                                       json:"propertyType"`
	Bedrooms     int                                  `gorm:"type:int"                                        json:"bedrooms"`
	Bathrooms    int                                  `gorm:"type:int"                                        json:"bathrooms"`
	Area         float64                              `gorm:"type:decimal(10,2)"                              json:"area"`
	Images       datatypes.JSONSlice[string]          `gorm:"type:jsonb"                                      json:"images"`
	Amenities    datatypes.JSONSlice[string]          `gorm:"type:jsonb"                                      json:"amenities"`
	PostedBy     uuid.UUID                            `gorm:"type:uuid;not null;index:idx_properties_posted_by" json:"postedBy"  validate:"required"`
	Status       PropertyStatus                       `gorm:"type:text;not null;default:'Available'"          json:"status"`
	Rating       float64                              `gorm:"type:decimal(3,2);default:0"                     json:"rating"`
	Contact      datatypes.JSONType[PropertyContact]  `gorm:"type:jsonb"                                      json:"contact"`
	Policies     datatypes.JSONType[PropertyPolicies] `gorm:"type:jsonb"                                      json:"policies"`

	// Relationships
	Owner *User `gorm:"foreignKey:PostedBy" json:"owner,omitempty"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.Title == "" {
		return gorm.ErrInvalidValue
	}
	if p.PostedBy == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if p.Status == "" {
		p.Status = PropertyAvailable
	}
	return nil
}
