package models

import (
	"time"

	"github.com/google/uuid"
)

// SpendRecord is one day of ad spend for a campaign as imported from an ad
// platform. AdID is null for campaign-level spend with no ad breakdown.
type SpendRecord struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Source      string    `gorm:"column:source;not null"`
	Campaign    string    `gorm:"column:campaign;not null"`
	AdID        *string   `gorm:"column:ad_id"`
	Date        time.Time `gorm:"column:date;not null"`
	AmountCents int64     `gorm:"column:amount_cents;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
