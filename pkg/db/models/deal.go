package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
)

// Deal is a CRM deal linked to its originating lead. ValueCents keeps money
// exact; presentation converts to dollars.
type Deal struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LeadID     uuid.UUID        `gorm:"column:lead_id;type:uuid;not null"`
	OwnerID    *uuid.UUID       `gorm:"column:owner_id;type:uuid"`
	Stage      enums.DealStage  `gorm:"column:stage;not null"`
	Status     enums.DealStatus `gorm:"column:status;not null;default:'open'"`
	ValueCents int64            `gorm:"column:value_cents;not null;default:0"`
	ClosedAt   *time.Time       `gorm:"column:closed_at"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
