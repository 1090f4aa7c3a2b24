package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
	"github.com/angelmondragon/funnelsight-backend/pkg/types"
)

// Lead is a CRM lead as written by the external capture flow. The analytics
// core consumes it read-only. Attribution is null for organic leads.
type Lead struct {
	ID          uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     *uuid.UUID                 `gorm:"column:owner_id;type:uuid"`
	Status      enums.LeadStatus           `gorm:"column:status;not null;default:'new'"`
	TrackingID  *string                    `gorm:"column:tracking_id"`
	Attribution *types.AttributionSnapshot `gorm:"column:attribution;type:jsonb"`
	CreatedAt   time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
