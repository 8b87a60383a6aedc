package payout

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/money"
)

// CalculateLineSnapshot computes one line item's payout and freezes it into
// an immutable snapshot.
//
// Net amount is (override price or unit price) x quantity minus discount.
// The commission percentage comes from the employee's plan for the business
// date; the commission amount is rounded exactly once, here at the line
// level, per the configured policy. The owner amount is net minus
// commission by construction, which is what makes commission + owner == net
// hold for every snapshot. Tips pass through to the employee untouched
// unless TipsAffectCommission is set.
//
// An employee with no active plan for the business date is not an error:
// the owner keeps 100% and commission is zero, so historical gaps in plan
// configuration cannot block a checkout. Overlapping plans, however, are
// propagated as ErrOverlappingPlans.
func CalculateLineSnapshot(transactionID uuid.UUID, occurredAt time.Time, input LineItemInput, cfg Config) (LineItemSnapshot, error) {
	if err := validateLineInput(input); err != nil {
		return LineItemSnapshot{}, err
	}

	businessDate, err := BusinessDate(occurredAt, cfg.CutoffHour)
	if err != nil {
		return LineItemSnapshot{}, err
	}

	price := input.UnitPriceCents
	if input.OverridePriceCents != nil {
		price = *input.OverridePriceCents
	}
	net := money.FromCents(price).MulInt(int64(input.Qty)).Sub(money.FromCents(input.DiscountCents))
	if net.IsNegative() {
		return LineItemSnapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds line price").WithDetails(map[string]any{
			"line_item_id": input.LineItemID,
			"net":          net.String(),
		})
	}
	tip := money.FromCents(input.TipCents)

	rateBps, planID, planType, tierID, err := resolveLineRate(input, businessDate, cfg)
	if err != nil {
		return LineItemSnapshot{}, err
	}

	base := net
	if cfg.TipsAffectCommission {
		base = net.Add(tip)
	}
	commission := base.ApplyRate(rateBps, cfg.Rounding)
	owner := net.Sub(commission)

	return LineItemSnapshot{
		ID:            uuid.New(),
		TransactionID: transactionID,
		LineItemID:    input.LineItemID,
		EmployeeID:    input.EmployeeID,
		Kind:          input.Kind,
		Entry:         enums.PayoutEntryTypeSale,
		BusinessDate:  businessDate,
		PlanID:        planID,
		PlanType:      planType,
		TierID:        tierID,
		RateBps:       rateBps,
		Rounding:      cfg.Rounding,
		TipsInBase:    cfg.TipsAffectCommission,
		Qty:           input.Qty,
		Net:           net,
		Tip:           tip,
		Commission:    commission,
		Owner:         owner,
	}, nil
}

func validateLineInput(input LineItemInput) error {
	if input.LineItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "line item id is required")
	}
	if input.EmployeeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	}
	if !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid line item kind %q", input.Kind))
	}
	if input.Qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.UnitPriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if input.OverridePriceCents != nil && *input.OverridePriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "override price cannot be negative")
	}
	if input.DiscountCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}
	if input.TipCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "tip cannot be negative")
	}
	if input.QualifyingRevenueCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "qualifying revenue cannot be negative")
	}
	return nil
}

func resolveLineRate(input LineItemInput, businessDate time.Time, cfg Config) (int, *uuid.UUID, enums.CompensationPlanType, *uuid.UUID, error) {
	plan, err := ResolvePlan(cfg.PlansByEmployee[input.EmployeeID], businessDate)
	if err != nil {
		if errors.Is(err, ErrNoActivePlan) {
			return 0, nil, "", nil, nil
		}
		return 0, nil, "", nil, err
	}

	planID := plan.ID
	if !plan.Type.PaysCommission() {
		return 0, &planID, plan.Type, nil, nil
	}

	switch plan.Type {
	case enums.CompensationPlanTypeTieredCommission:
		rate, tierID := ResolveTier(plan, input.QualifyingRevenueCents)
		return rate, &planID, plan.Type, tierID, nil
	default:
		rate := plan.BaseRateBps
		if rate == 0 {
			rate = kindBaseRate(input.Kind, cfg)
		}
		return rate, &planID, plan.Type, nil, nil
	}
}

// kindBaseRate supplies the franchise default when a flat commission plan
// defers to it. Services and products may carry different bases.
func kindBaseRate(kind enums.LineItemKind, cfg Config) int {
	if kind == enums.LineItemKindProduct {
		return cfg.ProductRateBps
	}
	return cfg.ServiceRateBps
}
