package compplans

import (
	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/internal/payout"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// toEnginePlan converts a stored plan into the calculation engine's shape.
func toEnginePlan(plan models.CompensationPlan) payout.CompensationPlan {
	tiers := make([]payout.CommissionTier, 0, len(plan.Tiers))
	for _, tier := range plan.Tiers {
		tiers = append(tiers, payout.CommissionTier{
			ID:              tier.ID,
			MinRevenueCents: tier.MinRevenueCents,
			MaxRevenueCents: tier.MaxRevenueCents,
			RateBps:         tier.RateBps,
			Priority:        tier.Priority,
		})
	}
	return payout.CompensationPlan{
		ID:            plan.ID,
		EmployeeID:    plan.EmployeeID,
		Type:          plan.Type,
		BaseRateBps:   plan.BaseRateBps,
		EffectiveFrom: plan.EffectiveFrom,
		EffectiveTo:   plan.EffectiveTo,
		Tiers:         tiers,
	}
}

// groupEnginePlans buckets stored plans by employee in engine shape.
func groupEnginePlans(plans []models.CompensationPlan) map[uuid.UUID][]payout.CompensationPlan {
	grouped := make(map[uuid.UUID][]payout.CompensationPlan)
	for _, plan := range plans {
		grouped[plan.EmployeeID] = append(grouped[plan.EmployeeID], toEnginePlan(plan))
	}
	return grouped
}
