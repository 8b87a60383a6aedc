package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	"github.com/chairtime/chairtime-backend/internal/compplans"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

// CreateCompensationPlan registers a new pay rule for one employee.
func CreateCompensationPlan(svc compplans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compensation plan service unavailable"))
			return
		}

		var payload createPlanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tiers := make([]compplans.CreateTierInput, 0, len(payload.Tiers))
		for _, tier := range payload.Tiers {
			tiers = append(tiers, compplans.CreateTierInput{
				MinRevenueCents: tier.MinRevenueCents,
				MaxRevenueCents: tier.MaxRevenueCents,
				RateBps:         tier.RateBps,
				Priority:        tier.Priority,
			})
		}

		plan, err := svc.CreatePlan(r.Context(), compplans.CreatePlanInput{
			FranchiseID:   payload.FranchiseID,
			EmployeeID:    payload.EmployeeID,
			Type:          enums.CompensationPlanType(payload.Type),
			BaseRateBps:   payload.BaseRateBps,
			EffectiveFrom: payload.EffectiveFrom,
			EffectiveTo:   payload.EffectiveTo,
			Tiers:         tiers,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newPlanResponse(plan))
	}
}

// EndCompensationPlan closes a plan's effective interval.
func EndCompensationPlan(svc compplans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compensation plan service unavailable"))
			return
		}

		planID, err := uuid.Parse(chi.URLParam(r, "planId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "plan id must be a uuid"))
			return
		}

		var payload endPlanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.EndPlan(r.Context(), planID, payload.EffectiveTo); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ended"})
	}
}

// ListEmployeePlans lists every plan ever configured for one employee.
func ListEmployeePlans(svc compplans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compensation plan service unavailable"))
			return
		}

		employeeID, err := uuid.Parse(chi.URLParam(r, "employeeId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "employee id must be a uuid"))
			return
		}

		plans, err := svc.ListEmployeePlans(r.Context(), employeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]planResponse, 0, len(plans))
		for i := range plans {
			out = append(out, newPlanResponse(&plans[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// GetSplitConfig returns the franchise royalty/marketing carve-out.
func GetSplitConfig(svc compplans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compensation plan service unavailable"))
			return
		}

		franchiseID, err := uuid.Parse(chi.URLParam(r, "franchiseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "franchise id must be a uuid"))
			return
		}

		cfg, err := svc.GetSplitConfig(r.Context(), franchiseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if cfg == nil {
			responses.WriteSuccess(w, splitConfigResponse{FranchiseID: franchiseID})
			return
		}
		responses.WriteSuccess(w, newSplitConfigResponse(cfg))
	}
}

// SetSplitConfig creates or replaces the franchise carve-out.
func SetSplitConfig(svc compplans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "compensation plan service unavailable"))
			return
		}

		franchiseID, err := uuid.Parse(chi.URLParam(r, "franchiseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "franchise id must be a uuid"))
			return
		}

		var payload setSplitConfigRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cfg, err := svc.SetSplitConfig(r.Context(), compplans.SetSplitConfigInput{
			FranchiseID:  franchiseID,
			Enabled:      payload.Enabled,
			RoyaltyBps:   payload.RoyaltyBps,
			MarketingBps: payload.MarketingBps,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSplitConfigResponse(cfg))
	}
}

type createPlanRequest struct {
	FranchiseID   uuid.UUID     `json:"franchise_id" validate:"required"`
	EmployeeID    uuid.UUID     `json:"employee_id" validate:"required"`
	Type          string        `json:"type" validate:"required"`
	BaseRateBps   int           `json:"base_rate_bps" validate:"gte=0,lte=10000"`
	EffectiveFrom time.Time     `json:"effective_from" validate:"required"`
	EffectiveTo   *time.Time    `json:"effective_to,omitempty"`
	Tiers         []tierRequest `json:"tiers" validate:"dive"`
}

type tierRequest struct {
	MinRevenueCents int64  `json:"min_revenue_cents" validate:"gte=0"`
	MaxRevenueCents *int64 `json:"max_revenue_cents,omitempty"`
	RateBps         int    `json:"rate_bps" validate:"gte=0,lte=10000"`
	Priority        int    `json:"priority"`
}

type endPlanRequest struct {
	EffectiveTo time.Time `json:"effective_to" validate:"required"`
}

type setSplitConfigRequest struct {
	Enabled      bool `json:"enabled"`
	RoyaltyBps   int  `json:"royalty_bps" validate:"gte=0,lte=10000"`
	MarketingBps int  `json:"marketing_bps" validate:"gte=0,lte=10000"`
}

type planResponse struct {
	PlanID        uuid.UUID      `json:"plan_id"`
	FranchiseID   uuid.UUID      `json:"franchise_id"`
	EmployeeID    uuid.UUID      `json:"employee_id"`
	Type          string         `json:"type"`
	BaseRateBps   int            `json:"base_rate_bps"`
	EffectiveFrom time.Time      `json:"effective_from"`
	EffectiveTo   *time.Time     `json:"effective_to,omitempty"`
	Tiers         []tierResponse `json:"tiers,omitempty"`
}

type tierResponse struct {
	TierID          uuid.UUID `json:"tier_id"`
	MinRevenueCents int64     `json:"min_revenue_cents"`
	MaxRevenueCents *int64    `json:"max_revenue_cents,omitempty"`
	RateBps         int       `json:"rate_bps"`
	Priority        int       `json:"priority"`
}

type splitConfigResponse struct {
	FranchiseID  uuid.UUID `json:"franchise_id"`
	Enabled      bool      `json:"enabled"`
	RoyaltyBps   int       `json:"royalty_bps"`
	MarketingBps int       `json:"marketing_bps"`
}

func newPlanResponse(plan *models.CompensationPlan) planResponse {
	if plan == nil {
		return planResponse{}
	}
	tiers := make([]tierResponse, 0, len(plan.Tiers))
	for _, tier := range plan.Tiers {
		tiers = append(tiers, tierResponse{
			TierID:          tier.ID,
			MinRevenueCents: tier.MinRevenueCents,
			MaxRevenueCents: tier.MaxRevenueCents,
			RateBps:         tier.RateBps,
			Priority:        tier.Priority,
		})
	}
	return planResponse{
		PlanID:        plan.ID,
		FranchiseID:   plan.FranchiseID,
		EmployeeID:    plan.EmployeeID,
		Type:          string(plan.Type),
		BaseRateBps:   plan.BaseRateBps,
		EffectiveFrom: plan.EffectiveFrom,
		EffectiveTo:   plan.EffectiveTo,
		Tiers:         tiers,
	}
}

func newSplitConfigResponse(cfg *models.FranchiseSplitConfig) splitConfigResponse {
	if cfg == nil {
		return splitConfigResponse{}
	}
	return splitConfigResponse{
		FranchiseID:  cfg.FranchiseID,
		Enabled:      cfg.Enabled,
		RoyaltyBps:   cfg.RoyaltyBps,
		MarketingBps: cfg.MarketingBps,
	}
}
