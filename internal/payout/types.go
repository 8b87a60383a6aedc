package payout

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/enums"
	"github.com/chairtime/chairtime-backend/pkg/money"
)

// LineItemInput is one sold unit as presented by the checkout caller.
// Inputs are immutable for the duration of a calculation call.
type LineItemInput struct {
	LineItemID         uuid.UUID
	Kind               enums.LineItemKind
	EmployeeID         uuid.UUID
	UnitPriceCents     int64
	Qty                int
	OverridePriceCents *int64
	DiscountCents      int64
	TipCents           int64
	// QualifyingRevenueCents is the employee's cumulative revenue for the
	// tier period, supplied by the caller. The engine never computes
	// running totals itself.
	QualifyingRevenueCents int64
}

// CommissionTier is one bracket of a tiered commission plan. Bounds are
// half-open: [MinRevenueCents, MaxRevenueCents). A nil max is unbounded.
type CommissionTier struct {
	ID              uuid.UUID
	MinRevenueCents int64
	MaxRevenueCents *int64
	RateBps         int
	// Priority breaks ties when ranges overlap; the lowest number wins.
	Priority int
}

// CompensationPlan is one employee's pay rule over a date interval
// [EffectiveFrom, EffectiveTo). A nil EffectiveTo means currently active.
type CompensationPlan struct {
	ID            uuid.UUID
	EmployeeID    uuid.UUID
	Type          enums.CompensationPlanType
	BaseRateBps   int
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	Tiers         []CommissionTier
}

// Config is the fully resolved, effective-at-transaction-time payout
// configuration. It is built once per transaction and reused for every line
// item, which is what keeps later configuration edits from rewriting
// history. The engine never reaches back to a live configuration store.
type Config struct {
	CutoffHour           int
	Rounding             enums.RoundingMode
	ServiceRateBps       int
	ProductRateBps       int
	TipsAffectCommission bool
	// PlansByEmployee holds every plan (past and present) for the
	// employees appearing on the transaction, pre-fetched by the caller.
	PlansByEmployee map[uuid.UUID][]CompensationPlan
}

// DefaultConfig is the configuration for callers without a franchise
// override: base commission 0%, tips excluded from commission, round half
// up. The cutoff hour is deployment-specific and passed in.
func DefaultConfig(cutoffHour int) Config {
	return Config{
		CutoffHour: cutoffHour,
		Rounding:   enums.RoundingModeHalfUp,
	}
}

// LineItemSnapshot is the frozen payout record for one line item. Every
// figure that produced it is captured so the calculation is reconstructible
// from the snapshot alone, without re-resolving configuration. Snapshots
// are never mutated; corrections are new, opposite-signed snapshots.
type LineItemSnapshot struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	LineItemID    uuid.UUID
	EmployeeID    uuid.UUID
	Kind          enums.LineItemKind
	Entry         enums.PayoutEntryType
	// ReversesSnapshotID links a reversal back to the snapshot it negates.
	ReversesSnapshotID *uuid.UUID
	BusinessDate       time.Time
	PlanID             *uuid.UUID
	PlanType           enums.CompensationPlanType
	TierID             *uuid.UUID
	RateBps            int
	Rounding           enums.RoundingMode
	// TipsInBase records whether the tip was part of the commission base
	// when the line was computed, so reversals can reproduce the math.
	TipsInBase bool
	Qty        int
	Net                money.Amount
	Tip                money.Amount
	Commission         money.Amount
	Owner              money.Amount
}

// TransactionPayout aggregates one transaction's snapshots. It is a
// computed view, always re-derivable by summing the line snapshots; it is
// never the source of truth on its own.
type TransactionPayout struct {
	Lines           int
	TotalNet        money.Amount
	TotalCommission money.Amount
	TotalOwner      money.Amount
	TotalTip        money.Amount
	// Split results; zero and OwnerAfterSplit == TotalOwner when no split
	// configuration applies.
	RoyaltyAmount   money.Amount
	MarketingAmount money.Amount
	OwnerAfterSplit money.Amount
}

// SplitConfig is the franchise-level royalty/marketing carve-out. It
// applies to the owner amount only, never to commission or tips.
type SplitConfig struct {
	Enabled      bool
	RoyaltyBps   int
	MarketingBps int
}

// RefundLine requests the reversal of one snapshot, fully or partially.
// At most one of NetCents or Qty may be set; both nil means a full refund.
type RefundLine struct {
	SnapshotID uuid.UUID
	// NetCents refunds a partial dollar amount of the line's net.
	NetCents *int64
	// Qty refunds a number of units out of the original quantity.
	Qty *int
}
