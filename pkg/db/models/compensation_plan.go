package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/enums"
)

// CompensationPlan is one employee's pay rule over a date interval. The
// interval is half-open: EffectiveFrom inclusive, EffectiveTo exclusive,
// nil EffectiveTo meaning currently active. Intervals for one employee
// must never overlap; the service layer enforces that on write.
type CompensationPlan struct {
	ID            uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FranchiseID   uuid.UUID                  `gorm:"column:franchise_id;type:uuid;not null;index"`
	EmployeeID    uuid.UUID                  `gorm:"column:employee_id;type:uuid;not null;index"`
	Type          enums.CompensationPlanType `gorm:"column:type;type:text;not null"`
	BaseRateBps   int                        `gorm:"column:base_rate_bps;not null;default:0"`
	EffectiveFrom time.Time                  `gorm:"column:effective_from;not null"`
	EffectiveTo   *time.Time                 `gorm:"column:effective_to"`
	Tiers         []CommissionTier           `gorm:"foreignKey:PlanID"`
	CreatedAt     time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
