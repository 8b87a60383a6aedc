package compplans

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/internal/payout"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/money"
)

// Service manages compensation plans and franchise split configuration.
// Plan intervals for one employee must never overlap; that rule is
// enforced here on every write so the checkout path can treat an overlap
// as data corruption rather than a user mistake.
type Service interface {
	CreatePlan(ctx context.Context, input CreatePlanInput) (*models.CompensationPlan, error)
	EndPlan(ctx context.Context, planID uuid.UUID, effectiveTo time.Time) error
	ListEmployeePlans(ctx context.Context, employeeID uuid.UUID) ([]models.CompensationPlan, error)
	GetSplitConfig(ctx context.Context, franchiseID uuid.UUID) (*models.FranchiseSplitConfig, error)
	SetSplitConfig(ctx context.Context, input SetSplitConfigInput) (*models.FranchiseSplitConfig, error)
	EnginePlansFor(ctx context.Context, employeeIDs []uuid.UUID) (map[uuid.UUID][]payout.CompensationPlan, error)
	EngineSplitFor(ctx context.Context, franchiseID uuid.UUID) (payout.SplitConfig, error)
}

type service struct {
	repo Repository
}

// CreatePlanInput captures a new pay rule for one employee.
type CreatePlanInput struct {
	FranchiseID   uuid.UUID                  `json:"franchise_id"`
	EmployeeID    uuid.UUID                  `json:"employee_id"`
	Type          enums.CompensationPlanType `json:"type"`
	BaseRateBps   int                        `json:"base_rate_bps"`
	EffectiveFrom time.Time                  `json:"effective_from"`
	EffectiveTo   *time.Time                 `json:"effective_to"`
	Tiers         []CreateTierInput          `json:"tiers"`
}

// CreateTierInput is one revenue bracket of a tiered plan.
type CreateTierInput struct {
	MinRevenueCents int64  `json:"min_revenue_cents"`
	MaxRevenueCents *int64 `json:"max_revenue_cents"`
	RateBps         int    `json:"rate_bps"`
	Priority        int    `json:"priority"`
}

// SetSplitConfigInput sets the franchise royalty/marketing carve-out.
type SetSplitConfigInput struct {
	FranchiseID  uuid.UUID `json:"franchise_id"`
	Enabled      bool      `json:"enabled"`
	RoyaltyBps   int       `json:"royalty_bps"`
	MarketingBps int       `json:"marketing_bps"`
}

// NewService wires a compensation plan service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("compensation plan repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreatePlan(ctx context.Context, input CreatePlanInput) (*models.CompensationPlan, error) {
	if err := validateCreatePlan(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByEmployee(ctx, input.EmployeeID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if intervalsOverlap(input.EffectiveFrom, input.EffectiveTo, other.EffectiveFrom, other.EffectiveTo) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "plan interval overlaps an existing plan").WithDetails(map[string]any{
				"existing_plan_id": other.ID,
			})
		}
	}

	plan := &models.CompensationPlan{
		FranchiseID:   input.FranchiseID,
		EmployeeID:    input.EmployeeID,
		Type:          input.Type,
		BaseRateBps:   input.BaseRateBps,
		EffectiveFrom: input.EffectiveFrom,
		EffectiveTo:   input.EffectiveTo,
	}
	for _, tier := range input.Tiers {
		plan.Tiers = append(plan.Tiers, models.CommissionTier{
			MinRevenueCents: tier.MinRevenueCents,
			MaxRevenueCents: tier.MaxRevenueCents,
			RateBps:         tier.RateBps,
			Priority:        tier.Priority,
		})
	}

	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *service) EndPlan(ctx context.Context, planID uuid.UUID, effectiveTo time.Time) error {
	if planID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "plan id is required")
	}
	if effectiveTo.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "effective-to date is required")
	}

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	if plan == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "compensation plan not found")
	}
	if !effectiveTo.After(plan.EffectiveFrom) {
		return pkgerrors.New(pkgerrors.CodeValidation, "effective-to must be after effective-from")
	}
	if plan.EffectiveTo != nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "compensation plan is already ended")
	}

	return s.repo.EndPlan(ctx, planID, effectiveTo)
}

func (s *service) ListEmployeePlans(ctx context.Context, employeeID uuid.UUID) ([]models.CompensationPlan, error) {
	if employeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	}
	return s.repo.ListByEmployee(ctx, employeeID)
}

func (s *service) GetSplitConfig(ctx context.Context, franchiseID uuid.UUID) (*models.FranchiseSplitConfig, error) {
	if franchiseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "franchise id is required")
	}
	return s.repo.GetSplitConfig(ctx, franchiseID)
}

func (s *service) SetSplitConfig(ctx context.Context, input SetSplitConfigInput) (*models.FranchiseSplitConfig, error) {
	if input.FranchiseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "franchise id is required")
	}
	if input.RoyaltyBps < 0 || input.MarketingBps < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "split percentages cannot be negative")
	}
	if input.RoyaltyBps+input.MarketingBps > money.BasisPointsDenominator {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "royalty plus marketing cannot exceed 100%")
	}

	cfg := &models.FranchiseSplitConfig{
		FranchiseID:  input.FranchiseID,
		Enabled:      input.Enabled,
		RoyaltyBps:   input.RoyaltyBps,
		MarketingBps: input.MarketingBps,
	}
	if err := s.repo.UpsertSplitConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *service) EnginePlansFor(ctx context.Context, employeeIDs []uuid.UUID) (map[uuid.UUID][]payout.CompensationPlan, error) {
	plans, err := s.repo.ListByEmployees(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}
	return groupEnginePlans(plans), nil
}

func (s *service) EngineSplitFor(ctx context.Context, franchiseID uuid.UUID) (payout.SplitConfig, error) {
	cfg, err := s.GetSplitConfig(ctx, franchiseID)
	if err != nil {
		return payout.SplitConfig{}, err
	}
	if cfg == nil {
		return payout.SplitConfig{}, nil
	}
	return payout.SplitConfig{
		Enabled:      cfg.Enabled,
		RoyaltyBps:   cfg.RoyaltyBps,
		MarketingBps: cfg.MarketingBps,
	}, nil
}

func validateCreatePlan(input CreatePlanInput) error {
	if input.FranchiseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "franchise id is required")
	}
	if input.EmployeeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid plan type %q", input.Type))
	}
	if input.BaseRateBps < 0 || input.BaseRateBps > money.BasisPointsDenominator {
		return pkgerrors.New(pkgerrors.CodeValidation, "base rate must be 0..10000 bps")
	}
	if input.EffectiveFrom.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "effective-from date is required")
	}
	if input.EffectiveTo != nil && !input.EffectiveTo.After(input.EffectiveFrom) {
		return pkgerrors.New(pkgerrors.CodeValidation, "effective-to must be after effective-from")
	}
	if len(input.Tiers) > 0 && input.Type != enums.CompensationPlanTypeTieredCommission {
		return pkgerrors.New(pkgerrors.CodeValidation, "tiers are only valid on tiered commission plans")
	}
	for _, tier := range input.Tiers {
		if tier.MinRevenueCents < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier minimum revenue cannot be negative")
		}
		if tier.MaxRevenueCents != nil && *tier.MaxRevenueCents <= tier.MinRevenueCents {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier maximum must exceed its minimum")
		}
		if tier.RateBps < 0 || tier.RateBps > money.BasisPointsDenominator {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier rate must be 0..10000 bps")
		}
	}
	return nil
}

// intervalsOverlap checks two half-open [from, to) intervals; a nil end is
// open-ended.
func intervalsOverlap(fromA time.Time, toA *time.Time, fromB time.Time, toB *time.Time) bool {
	if toA != nil && !fromB.Before(*toA) {
		return false
	}
	if toB != nil && !fromA.Before(*toB) {
		return false
	}
	return true
}
