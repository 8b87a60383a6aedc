package models

import (
	"time"

	"github.com/google/uuid"
)

// CommissionTier is one revenue bracket of a tiered commission plan.
// Brackets are half-open [MinRevenueCents, MaxRevenueCents); a null max is
// unbounded. Priority breaks overlaps, lowest number first.
type CommissionTier struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PlanID          uuid.UUID `gorm:"column:plan_id;type:uuid;not null;index"`
	MinRevenueCents int64     `gorm:"column:min_revenue_cents;not null;default:0"`
	MaxRevenueCents *int64    `gorm:"column:max_revenue_cents"`
	RateBps         int       `gorm:"column:rate_bps;not null"`
	Priority        int       `gorm:"column:priority;not null;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
