package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseUUIDModel is embedded by every persisted model. Ids are uuidv7 so
// primary keys sort roughly by creation time.
type BaseUUIDModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuidv7()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                        json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"                        json:"updatedAt"`
}
