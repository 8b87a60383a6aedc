package compplans

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
)

type fakeRepository struct {
	plans        map[uuid.UUID][]models.CompensationPlan
	splits       map[uuid.UUID]*models.FranchiseSplitConfig
	createFn     func(ctx context.Context, plan *models.CompensationPlan) error
	endPlanCalls []uuid.UUID
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		plans:  make(map[uuid.UUID][]models.CompensationPlan),
		splits: make(map[uuid.UUID]*models.FranchiseSplitConfig),
	}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) CreatePlan(ctx context.Context, plan *models.CompensationPlan) error {
	if f.createFn != nil {
		return f.createFn(ctx, plan)
	}
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	f.plans[plan.EmployeeID] = append(f.plans[plan.EmployeeID], *plan)
	return nil
}

func (f *fakeRepository) GetPlan(ctx context.Context, planID uuid.UUID) (*models.CompensationPlan, error) {
	for _, plans := range f.plans {
		for _, plan := range plans {
			if plan.ID == planID {
				found := plan
				return &found, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeRepository) EndPlan(ctx context.Context, planID uuid.UUID, effectiveTo time.Time) error {
	f.endPlanCalls = append(f.endPlanCalls, planID)
	for employeeID, plans := range f.plans {
		for i, plan := range plans {
			if plan.ID == planID {
				end := effectiveTo
				f.plans[employeeID][i].EffectiveTo = &end
			}
		}
	}
	return nil
}

func (f *fakeRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.CompensationPlan, error) {
	return f.plans[employeeID], nil
}

func (f *fakeRepository) ListByEmployees(ctx context.Context, employeeIDs []uuid.UUID) ([]models.CompensationPlan, error) {
	var out []models.CompensationPlan
	for _, id := range employeeIDs {
		out = append(out, f.plans[id]...)
	}
	return out, nil
}

func (f *fakeRepository) GetSplitConfig(ctx context.Context, franchiseID uuid.UUID) (*models.FranchiseSplitConfig, error) {
	return f.splits[franchiseID], nil
}

func (f *fakeRepository) UpsertSplitConfig(ctx context.Context, cfg *models.FranchiseSplitConfig) error {
	f.splits[cfg.FranchiseID] = cfg
	return nil
}

func validPlanInput(employeeID uuid.UUID) CreatePlanInput {
	return CreatePlanInput{
		FranchiseID:   uuid.New(),
		EmployeeID:    employeeID,
		Type:          enums.CompensationPlanTypeCommission,
		BaseRateBps:   4000,
		EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestService_CreatePlan(t *testing.T) {
	repo := newFakeRepository()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	employeeID := uuid.New()
	plan, err := svc.CreatePlan(context.Background(), validPlanInput(employeeID))
	if err != nil {
		t.Fatalf("CreatePlan error: %v", err)
	}
	if plan.EmployeeID != employeeID || plan.BaseRateBps != 4000 {
		t.Fatalf("unexpected plan data: %+v", plan)
	}
	if len(repo.plans[employeeID]) != 1 {
		t.Fatalf("expected plan to be persisted")
	}
}

func TestService_CreatePlanRejectsOverlap(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := NewService(repo)

	employeeID := uuid.New()
	if _, err := svc.CreatePlan(context.Background(), validPlanInput(employeeID)); err != nil {
		t.Fatalf("seed plan error: %v", err)
	}

	// Open-ended existing plan overlaps anything that starts later.
	overlapping := validPlanInput(employeeID)
	overlapping.EffectiveFrom = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreatePlan(context.Background(), overlapping)
	if err == nil {
		t.Fatal("expected overlap to be rejected")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestService_CreatePlanAllowsAdjacentIntervals(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := NewService(repo)

	employeeID := uuid.New()
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	first := validPlanInput(employeeID)
	first.EffectiveTo = &end
	if _, err := svc.CreatePlan(context.Background(), first); err != nil {
		t.Fatalf("seed plan error: %v", err)
	}

	// A successor starting exactly where the predecessor ends is legal.
	second := validPlanInput(employeeID)
	second.EffectiveFrom = end
	if _, err := svc.CreatePlan(context.Background(), second); err != nil {
		t.Fatalf("adjacent plan rejected: %v", err)
	}
}

func TestService_CreatePlanValidation(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := NewService(repo)
	employeeID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*CreatePlanInput)
	}{
		{"missing franchise", func(in *CreatePlanInput) { in.FranchiseID = uuid.Nil }},
		{"missing employee", func(in *CreatePlanInput) { in.EmployeeID = uuid.Nil }},
		{"invalid type", func(in *CreatePlanInput) { in.Type = "equity" }},
		{"rate above 100%", func(in *CreatePlanInput) { in.BaseRateBps = 10_001 }},
		{"missing effective from", func(in *CreatePlanInput) { in.EffectiveFrom = time.Time{} }},
		{"inverted interval", func(in *CreatePlanInput) {
			end := in.EffectiveFrom.AddDate(0, 0, -1)
			in.EffectiveTo = &end
		}},
		{"tiers on flat plan", func(in *CreatePlanInput) {
			in.Tiers = []CreateTierInput{{RateBps: 1000}}
		}},
		{"inverted tier bracket", func(in *CreatePlanInput) {
			in.Type = enums.CompensationPlanTypeTieredCommission
			max := int64(100)
			in.Tiers = []CreateTierInput{{MinRevenueCents: 200, MaxRevenueCents: &max, RateBps: 1000}}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validPlanInput(employeeID)
			tc.mutate(&input)
			if _, err := svc.CreatePlan(context.Background(), input); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestService_EndPlan(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := NewService(repo)

	employeeID := uuid.New()
	plan, err := svc.CreatePlan(context.Background(), validPlanInput(employeeID))
	if err != nil {
		t.Fatalf("seed plan error: %v", err)
	}

	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	if err := svc.EndPlan(context.Background(), plan.ID, end); err != nil {
		t.Fatalf("EndPlan error: %v", err)
	}
	if len(repo.endPlanCalls) != 1 {
		t.Fatal("expected repository end-plan call")
	}

	// Ending twice is a state conflict.
	if err := svc.EndPlan(context.Background(), plan.ID, end.AddDate(0, 1, 0)); err == nil {
		t.Fatal("expected second EndPlan to fail")
	}

	if err := svc.EndPlan(context.Background(), uuid.New(), end); err == nil {
		t.Fatal("expected unknown plan to fail")
	}
}

func TestService_SetSplitConfig(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := NewService(repo)

	franchiseID := uuid.New()
	cfg, err := svc.SetSplitConfig(context.Background(), SetSplitConfigInput{
		FranchiseID:  franchiseID,
		Enabled:      true,
		RoyaltyBps:   600,
		MarketingBps: 200,
	})
	if err != nil {
		t.Fatalf("SetSplitConfig error: %v", err)
	}
	if !cfg.Enabled || cfg.RoyaltyBps != 600 {
		t.Fatalf("unexpected split config: %+v", cfg)
	}

	split, err := svc.EngineSplitFor(context.Background(), franchiseID)
	if err != nil {
		t.Fatalf("EngineSplitFor error: %v", err)
	}
	if !split.Enabled || split.RoyaltyBps != 600 || split.MarketingBps != 200 {
		t.Fatalf("unexpected engine split: %+v", split)
	}

	if _, err := svc.SetSplitConfig(context.Background(), SetSplitConfigInput{
		FranchiseID: franchiseID,
		RoyaltyBps:  6000,
		// Combined carve-out above 100% is impossible to apply.
		MarketingBps: 5000,
	}); err == nil {
		t.Fatal("expected over-100% split to be rejected")
	}
}

func TestService_EngineSplitForMissingConfig(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := NewService(repo)

	split, err := svc.EngineSplitFor(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("EngineSplitFor error: %v", err)
	}
	if split.Enabled {
		t.Fatal("missing config must disable the split")
	}
}

func TestService_EnginePlansFor(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := NewService(repo)

	employeeID := uuid.New()
	input := validPlanInput(employeeID)
	input.Type = enums.CompensationPlanTypeTieredCommission
	max := int64(100_000)
	input.Tiers = []CreateTierInput{
		{MinRevenueCents: 0, MaxRevenueCents: &max, RateBps: 1000, Priority: 10},
		{MinRevenueCents: 100_000, RateBps: 1500, Priority: 20},
	}
	if _, err := svc.CreatePlan(context.Background(), input); err != nil {
		t.Fatalf("seed plan error: %v", err)
	}

	grouped, err := svc.EnginePlansFor(context.Background(), []uuid.UUID{employeeID})
	if err != nil {
		t.Fatalf("EnginePlansFor error: %v", err)
	}
	plans := grouped[employeeID]
	if len(plans) != 1 {
		t.Fatalf("expected 1 engine plan, got %d", len(plans))
	}
	if len(plans[0].Tiers) != 2 {
		t.Fatalf("expected tiers to be carried over, got %d", len(plans[0].Tiers))
	}
	if plans[0].Tiers[0].MaxRevenueCents == nil || *plans[0].Tiers[0].MaxRevenueCents != 100_000 {
		t.Fatalf("tier bounds lost in mapping: %+v", plans[0].Tiers[0])
	}
}

func TestService_CreatePlanRepoError(t *testing.T) {
	repo := newFakeRepository()
	svc, _ := NewService(repo)

	expectedErr := errors.New("boom")
	repo.createFn = func(ctx context.Context, plan *models.CompensationPlan) error {
		return expectedErr
	}

	if _, err := svc.CreatePlan(context.Background(), validPlanInput(uuid.New())); !errors.Is(err, expectedErr) {
		t.Fatalf("expected repo error to bubble up, got %v", err)
	}
}
