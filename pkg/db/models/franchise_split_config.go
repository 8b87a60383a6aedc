package models

import (
	"time"

	"github.com/google/uuid"
)

// FranchiseSplitConfig is the per-franchise royalty and marketing carve-out
// applied to the owner amount at checkout. At most one row per franchise.
type FranchiseSplitConfig struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FranchiseID  uuid.UUID `gorm:"column:franchise_id;type:uuid;not null;uniqueIndex"`
	Enabled      bool      `gorm:"column:enabled;not null;default:false"`
	RoyaltyBps   int       `gorm:"column:royalty_bps;not null;default:0"`
	MarketingBps int       `gorm:"column:marketing_bps;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
