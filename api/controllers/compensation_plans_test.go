package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/internal/compplans"
	"github.com/chairtime/chairtime-backend/internal/payout"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
)

type stubPlanService struct {
	plan       *models.CompensationPlan
	plans      []models.CompensationPlan
	split      *models.FranchiseSplitConfig
	err        error
	endedPlans []uuid.UUID
}

func (s *stubPlanService) CreatePlan(ctx context.Context, input compplans.CreatePlanInput) (*models.CompensationPlan, error) {
	return s.plan, s.err
}

func (s *stubPlanService) EndPlan(ctx context.Context, planID uuid.UUID, effectiveTo time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.endedPlans = append(s.endedPlans, planID)
	return nil
}

func (s *stubPlanService) ListEmployeePlans(ctx context.Context, employeeID uuid.UUID) ([]models.CompensationPlan, error) {
	return s.plans, s.err
}

func (s *stubPlanService) GetSplitConfig(ctx context.Context, franchiseID uuid.UUID) (*models.FranchiseSplitConfig, error) {
	return s.split, s.err
}

func (s *stubPlanService) SetSplitConfig(ctx context.Context, input compplans.SetSplitConfigInput) (*models.FranchiseSplitConfig, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.FranchiseSplitConfig{
		FranchiseID:  input.FranchiseID,
		Enabled:      input.Enabled,
		RoyaltyBps:   input.RoyaltyBps,
		MarketingBps: input.MarketingBps,
	}, nil
}

func (s *stubPlanService) EnginePlansFor(ctx context.Context, employeeIDs []uuid.UUID) (map[uuid.UUID][]payout.CompensationPlan, error) {
	return nil, nil
}

func (s *stubPlanService) EngineSplitFor(ctx context.Context, franchiseID uuid.UUID) (payout.SplitConfig, error) {
	return payout.SplitConfig{}, nil
}

func requestWithURLParam(method, url, key, value string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCreateCompensationPlan(t *testing.T) {
	franchiseID := uuid.New()
	employeeID := uuid.New()
	planID := uuid.New()

	svc := &stubPlanService{plan: &models.CompensationPlan{
		ID:            planID,
		FranchiseID:   franchiseID,
		EmployeeID:    employeeID,
		Type:          "commission",
		BaseRateBps:   4000,
		EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	handler := CreateCompensationPlan(svc, nil)

	body := `{
		"franchise_id": "` + franchiseID.String() + `",
		"employee_id": "` + employeeID.String() + `",
		"type": "commission",
		"base_rate_bps": 4000,
		"effective_from": "2026-01-01T00:00:00Z"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compensation-plans", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data planResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.PlanID != planID || envelope.Data.BaseRateBps != 4000 {
		t.Fatalf("unexpected plan response: %+v", envelope.Data)
	}
}

func TestCreateCompensationPlanConflict(t *testing.T) {
	svc := &stubPlanService{err: pkgerrors.New(pkgerrors.CodeConflict, "plan interval overlaps an existing plan")}
	handler := CreateCompensationPlan(svc, nil)

	body := `{
		"franchise_id": "` + uuid.NewString() + `",
		"employee_id": "` + uuid.NewString() + `",
		"type": "commission",
		"base_rate_bps": 4000,
		"effective_from": "2026-01-01T00:00:00Z"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compensation-plans", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestEndCompensationPlan(t *testing.T) {
	planID := uuid.New()
	svc := &stubPlanService{}
	handler := EndCompensationPlan(svc, nil)

	req := requestWithURLParam(http.MethodPost, "/api/v1/compensation-plans/"+planID.String()+"/end", "planId", planID.String(), `{"effective_to":"2026-06-01T00:00:00Z"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.endedPlans) != 1 || svc.endedPlans[0] != planID {
		t.Fatalf("plan id not forwarded: %+v", svc.endedPlans)
	}
}

func TestEndCompensationPlanBadID(t *testing.T) {
	handler := EndCompensationPlan(&stubPlanService{}, nil)

	req := requestWithURLParam(http.MethodPost, "/api/v1/compensation-plans/nope/end", "planId", "nope", `{"effective_to":"2026-06-01T00:00:00Z"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetSplitConfigDefaultsWhenMissing(t *testing.T) {
	franchiseID := uuid.New()
	handler := GetSplitConfig(&stubPlanService{}, nil)

	req := requestWithURLParam(http.MethodGet, "/api/v1/franchises/"+franchiseID.String()+"/split-config", "franchiseId", franchiseID.String(), "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data splitConfigResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.FranchiseID != franchiseID || envelope.Data.Enabled {
		t.Fatalf("expected disabled default config, got %+v", envelope.Data)
	}
}

func TestSetSplitConfig(t *testing.T) {
	franchiseID := uuid.New()
	handler := SetSplitConfig(&stubPlanService{}, nil)

	req := requestWithURLParam(http.MethodPut, "/api/v1/franchises/"+franchiseID.String()+"/split-config", "franchiseId", franchiseID.String(), `{"enabled":true,"royalty_bps":600,"marketing_bps":200}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data splitConfigResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RoyaltyBps != 600 || envelope.Data.MarketingBps != 200 || !envelope.Data.Enabled {
		t.Fatalf("unexpected split config: %+v", envelope.Data)
	}
}
