package models

import (
	"time"

	"github.com/google/uuid"
)

// SaleTransaction is the transaction-level rollup persisted at checkout.
// The totals are derived sums of the line snapshots and are stored for
// reporting convenience; the snapshots remain the source of truth.
type SaleTransaction struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FranchiseID          uuid.UUID `gorm:"column:franchise_id;type:uuid;not null;index"`
	OccurredAt           time.Time `gorm:"column:occurred_at;not null"`
	BusinessDate         time.Time `gorm:"column:business_date;type:date;not null;index"`
	Lines                int       `gorm:"column:lines;not null"`
	TotalNetCents        int64     `gorm:"column:total_net_cents;not null"`
	TotalCommissionCents int64     `gorm:"column:total_commission_cents;not null"`
	TotalOwnerCents      int64     `gorm:"column:total_owner_cents;not null"`
	TotalTipCents        int64     `gorm:"column:total_tip_cents;not null"`
	RoyaltyCents         int64     `gorm:"column:royalty_cents;not null;default:0"`
	MarketingCents       int64     `gorm:"column:marketing_cents;not null;default:0"`
	OwnerAfterSplitCents int64     `gorm:"column:owner_after_split_cents;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
}
