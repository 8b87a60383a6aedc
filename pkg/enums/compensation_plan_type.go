package enums

import "fmt"

// CompensationPlanType maps to the compensation_plan_type_enum enum in Postgres.
type CompensationPlanType string

const (
	CompensationPlanTypeHourly           CompensationPlanType = "hourly"
	CompensationPlanTypeSalary           CompensationPlanType = "salary"
	CompensationPlanTypeCommission       CompensationPlanType = "commission"
	CompensationPlanTypeTieredCommission CompensationPlanType = "tiered_commission"
	CompensationPlanTypeChairRent        CompensationPlanType = "chair_rent"
)

var validCompensationPlanTypes = []CompensationPlanType{
	CompensationPlanTypeHourly,
	CompensationPlanTypeSalary,
	CompensationPlanTypeCommission,
	CompensationPlanTypeTieredCommission,
	CompensationPlanTypeChairRent,
}

// IsValid reports whether the value matches the canonical plan type enum.
func (t CompensationPlanType) IsValid() bool {
	for _, candidate := range validCompensationPlanTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// PaysCommission reports whether the plan type produces a per-line commission.
// Hourly, salary and chair-rent staff are paid outside the sale split.
func (t CompensationPlanType) PaysCommission() bool {
	return t == CompensationPlanTypeCommission || t == CompensationPlanTypeTieredCommission
}

// ParseCompensationPlanType converts raw input into CompensationPlanType.
func ParseCompensationPlanType(value string) (CompensationPlanType, error) {
	for _, candidate := range validCompensationPlanTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid compensation plan type %q", value)
}
