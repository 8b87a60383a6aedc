package payout

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Plan resolution failures. Services map these onto NOT_FOUND and
// CONFIG_INTEGRITY_ERROR surfaces respectively.
var (
	ErrNoActivePlan     = errors.New("no active compensation plan for business date")
	ErrOverlappingPlans = errors.New("overlapping compensation plans for business date")
)

// ResolvePlan returns the single plan whose [effective-from, effective-to)
// interval contains the business date. Resolution is by business date, not
// wall clock, so a past transaction keeps resolving to the plan that was
// active back then. Zero matches return ErrNoActivePlan; more than one
// match is a configuration-integrity fault and returns ErrOverlappingPlans
// rather than silently picking one.
func ResolvePlan(plans []CompensationPlan, businessDate time.Time) (*CompensationPlan, error) {
	var matched *CompensationPlan
	for i := range plans {
		plan := &plans[i]
		if !planCovers(plan, businessDate) {
			continue
		}
		if matched != nil {
			return nil, ErrOverlappingPlans
		}
		matched = plan
	}
	if matched == nil {
		return nil, ErrNoActivePlan
	}
	return matched, nil
}

func planCovers(plan *CompensationPlan, date time.Time) bool {
	if date.Before(plan.EffectiveFrom) {
		return false
	}
	if plan.EffectiveTo != nil && !date.Before(*plan.EffectiveTo) {
		return false
	}
	return true
}

// ResolveTier picks the commission rate for a tiered plan given the
// employee's qualifying revenue. Brackets are half-open [min, max), so
// revenue sitting exactly on a boundary belongs to the bracket that starts
// there. Overlapping brackets are broken by the lowest priority number,
// independent of slice order. When nothing matches, the plan's base rate
// applies and no tier is reported.
func ResolveTier(plan *CompensationPlan, revenueCents int64) (int, *uuid.UUID) {
	var selected *CommissionTier
	for i := range plan.Tiers {
		tier := &plan.Tiers[i]
		if revenueCents < tier.MinRevenueCents {
			continue
		}
		if tier.MaxRevenueCents != nil && revenueCents >= *tier.MaxRevenueCents {
			continue
		}
		if selected == nil || tier.Priority < selected.Priority {
			selected = tier
		}
	}
	if selected == nil {
		return plan.BaseRateBps, nil
	}
	id := selected.ID
	return selected.RateBps, &id
}
