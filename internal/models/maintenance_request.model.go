package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MaintenanceStatus string

const (
	StatusPending    MaintenanceStatus = "Pending"
	StatusInProgress MaintenanceStatus = "In Progress"
	StatusOnHold     MaintenanceStatus = "On Hold"
	StatusCompleted  MaintenanceStatus = "Completed"
	StatusCancelled  MaintenanceStatus = "Cancelled"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type MaintenancePriority string

const (
	PriorityLow    MaintenancePriority = "Low"
	PriorityMedium MaintenancePriority = "Medium"
	PriorityHigh   MaintenancePriority = "High"
)

func (p MaintenancePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type MaintenanceCategory string

const (
	CategoryPlumbing   MaintenanceCategory = "plumbing"
	CategoryElectrical MaintenanceCategory = "electrical"
	CategoryHVAC       MaintenanceCategory = "hvac"
	CategoryAppliance  MaintenanceCategory = "appliance"
	CategoryStructural MaintenanceCategory = "structural"
	CategorySecurity   MaintenanceCategory = "security"
	CategoryGeneral    MaintenanceCategory = "general"
)

func (c MaintenanceCategory) Valid() bool {
	switch c {
	case CategoryPlumbing, CategoryElectrical, CategoryHVAC, CategoryAppliance,
		CategoryStructural, CategorySecurity, CategoryGeneral:
		return true
	}
	return false
}

type HistoryType string

const (
	HistoryCreated    HistoryType = "created"
	HistoryStatus     HistoryType = "status"
	HistoryAssignment HistoryType = "assignment"
	HistoryComment    HistoryType = "comment"
	HistoryUpdate     HistoryType = "update"
)

type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentFile  AttachmentType = "file"
)

type Attachment struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Type AttachmentType `json:"type"`
	Size int64          `json:"size"`
	URL  string         `json:"url"`
}

type Comment struct {
	Author      string       `json:"author"`
	AuthorID    *uuid.UUID   `json:"authorId,omitempty"`
	Text        string       `json:"text"`
	Timestamp   time.Time    `json:"timestamp"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type HistoryEntry struct {
	Type        HistoryType    `json:"type"`
	Description string         `json:"description"`
	Timestamp   time.Time      `json:"timestamp"`
	Details     map[string]any `json:"details,omitempty"`
}

type ProviderContact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type MaintenanceRequest struct {
	BaseUUIDModel
	Title       string `gorm:"type:text;not null" json:"title"       validate:"required"`
	Description string `gorm:"type:text;not null" json:"description" validate:"required"`

	// Relationships with denormalized name snapshots taken at creation
	// time; never re-synced when the source entity is renamed.
	PropertyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_maintenance_requests_property"        json:"property"     validate:"required"`
	PropertyName string    `gorm:"type:text"                                                         json:"propertyName"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index:idx_maintenance_requests_tenant"          json:"tenant"       validate:"required"`
	TenantName   string    `gorm:"type:text"                                                         json:"tenantName"`
	LandlordID   uuid.UUID `gorm:"type:uuid;not null;index:idx_maintenance_requests_landlord_status" json:"landlord"     validate:"required"`

	Status   MaintenanceStatus   `gorm:"type:text;not null;default:'Pending';index:idx_maintenance_requests_landlord_status" json:"status"`
	Progress int                 `gorm:"type:int;default:0"                                                                  json:"progress"`
	Priority MaintenancePriority `gorm:"type:text;not null;default:'Medium'"                                                 json:"priority"`
	Category MaintenanceCategory `gorm:"type:text;not null;default:'general'"                                                json:"category"`

	AssignedTo        *string                             `gorm:"type:text"          json:"assignedTo"`
	AssignedToContact datatypes.JSONType[ProviderContact] `gorm:"type:jsonb"         json:"assignedToContact"`
	EstimatedCost     decimal.Decimal                     `gorm:"type:decimal(12,2);default:0" json:"estimatedCost"`
	ActualCost        decimal.Decimal                     `gorm:"type:decimal(12,2);default:0" json:"actualCost"`
	IsEmergency       bool                                `gorm:"type:bool;default:false"      json:"isEmergency"`
	IsUrgent          bool                                `gorm:"type:bool;default:false"      json:"isUrgent"`
	ScheduledDate     *time.Time                          `gorm:"type:timestamp"     json:"scheduledDate"`
	CompletedDate     *time.Time                          `gorm:"type:timestamp"     json:"completedDate"`

	// Append-only sub-documents, mutated only through their own
	// operations, never via bulk field update.
	Attachments datatypes.JSONSlice[Attachment]   `gorm:"type:jsonb" json:"attachments"`
	Comments    datatypes.JSONSlice[Comment]      `gorm:"type:jsonb" json:"comments"`
	History     datatypes.JSONSlice[HistoryEntry] `gorm:"type:jsonb" json:"history"`
}

func (mr *MaintenanceRequest) BeforeCreate(tx *gorm.DB) error {
	if mr.Title == "" || mr.Description == "" {
		return gorm.ErrInvalidValue
	}
	if mr.PropertyID == uuid.Nil || mr.TenantID == uuid.Nil || mr.LandlordID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if mr.Status == "" {
		mr.Status = StatusPending
	}
	if mr.Priority == "" {
		mr.Priority = PriorityMedium
	}
	if mr.Category == "" {
		mr.Category = CategoryGeneral
	}
	return nil
}

// ApplyStatus sets the status and derives progress from it. The rule
// fires on every save where status changes, not only on explicit status
// updates:
//
//	Pending     -> progress forced to 0
//	In Progress -> progress bumped to 25 only when currently 0
//	On Hold     -> progress unchanged
//	Completed   -> progress forced to 100, completedDate stamped
//	Cancelled   -> progress unchanged
func (mr *MaintenanceRequest) ApplyStatus(newStatus MaintenanceStatus, now time.Time) {
	mr.Status = newStatus

	switch newStatus {
	case StatusPending:
		mr.Progress = 0
	case StatusInProgress:
		if mr.Progress == 0 {
			mr.Progress = 25
		}
	case StatusCompleted:
		mr.Progress = 100
		completed := now
		mr.CompletedDate = &completed
	}
}

// AppendHistory adds one audit entry. Callers append exactly one entry
// per status or assignment change, in the same transaction as the field
// update.
func (mr *MaintenanceRequest) AppendHistory(
	entryType HistoryType,
	description string,
	details map[string]any,
	now time.Time,
) {
	mr.History = append(mr.History, HistoryEntry{
		Type:        entryType,
		Description: description,
		Timestamp:   now,
		Details:     details,
	})
}

func (mr *MaintenanceRequest) AppendComment(comment Comment) {
	mr.Comments = append(mr.Comments, comment)
}
