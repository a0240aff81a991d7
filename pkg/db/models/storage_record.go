package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/rmarquezdev/supplycart-backend/pkg/enums"
)

// StorageRecord is one named JSON record owned by a user. Exactly two names
// exist per owner (cartItems, orders); each mutation rewrites the whole
// payload.
type StorageRecord struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;uniqueIndex:ux_storage_records_owner_name"`
	Name      enums.RecordName `gorm:"column:name;type:text;not null;uniqueIndex:ux_storage_records_owner_name"`
	Payload   json.RawMessage  `gorm:"column:payload;type:jsonb;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
