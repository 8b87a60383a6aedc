package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/enums"
)

// PayoutSnapshot is one immutable payout ledger row: either the sale entry
// for a line item or a reversal that negates part of one. Rows are only
// ever inserted. There is deliberately no UpdatedAt and no update path;
// corrections are new rows pointing at the row they reverse. The rate,
// tier, plan type, rounding, and quantity that produced the amounts are
// stored alongside them so any reversal can reproduce the original math.
type PayoutSnapshot struct {
	ID                 uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionID      uuid.UUID                  `gorm:"column:transaction_id;type:uuid;not null;index"`
	LineItemID         uuid.UUID                  `gorm:"column:line_item_id;type:uuid;not null;index"`
	FranchiseID        uuid.UUID                  `gorm:"column:franchise_id;type:uuid;not null;index"`
	EmployeeID         uuid.UUID                  `gorm:"column:employee_id;type:uuid;not null;index"`
	Kind               enums.LineItemKind         `gorm:"column:kind;type:text;not null"`
	Entry              enums.PayoutEntryType      `gorm:"column:entry;type:text;not null"`
	ReversesSnapshotID *uuid.UUID                 `gorm:"column:reverses_snapshot_id;type:uuid;index"`
	BusinessDate       time.Time                  `gorm:"column:business_date;type:date;not null;index"`
	PlanID             *uuid.UUID                 `gorm:"column:plan_id;type:uuid"`
	PlanType           enums.CompensationPlanType `gorm:"column:plan_type;type:text"`
	TierID             *uuid.UUID                 `gorm:"column:tier_id;type:uuid"`
	RateBps            int                        `gorm:"column:rate_bps;not null;default:0"`
	Rounding           enums.RoundingMode         `gorm:"column:rounding;type:text;not null"`
	TipsInBase         bool                       `gorm:"column:tips_in_base;not null;default:false"`
	Qty                int                        `gorm:"column:qty;not null"`
	NetCents           int64                      `gorm:"column:net_cents;not null"`
	TipCents           int64                      `gorm:"column:tip_cents;not null;default:0"`
	CommissionCents    int64                      `gorm:"column:commission_cents;not null"`
	OwnerCents         int64                      `gorm:"column:owner_cents;not null"`
	CreatedAt          time.Time                  `gorm:"column:created_at;autoCreateTime"`
}
