package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	checkoutsvc "github.com/chairtime/chairtime-backend/internal/checkout"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

// Checkout turns a finalized sale into immutable payout snapshots.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]checkoutsvc.LineInput, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			lines = append(lines, checkoutsvc.LineInput{
				LineItemID:             line.LineItemID,
				Kind:                   enums.LineItemKind(line.Kind),
				EmployeeID:             line.EmployeeID,
				UnitPriceCents:         line.UnitPriceCents,
				Qty:                    line.Qty,
				OverridePriceCents:     line.OverridePriceCents,
				DiscountCents:          line.DiscountCents,
				TipCents:               line.TipCents,
				QualifyingRevenueCents: line.QualifyingRevenueCents,
			})
		}

		result, err := svc.Process(r.Context(), checkoutsvc.ProcessInput{
			FranchiseID: payload.FranchiseID,
			OccurredAt:  payload.OccurredAt,
			Lines:       lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(result))
	}
}

type checkoutRequest struct {
	FranchiseID uuid.UUID             `json:"franchise_id" validate:"required"`
	OccurredAt  time.Time             `json:"occurred_at" validate:"required"`
	Lines       []checkoutLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type checkoutLineRequest struct {
	LineItemID             uuid.UUID `json:"line_item_id" validate:"required"`
	Kind                   string    `json:"kind" validate:"required"`
	EmployeeID             uuid.UUID `json:"employee_id" validate:"required"`
	UnitPriceCents         int64     `json:"unit_price_cents" validate:"gte=0"`
	Qty                    int       `json:"qty" validate:"required,min=1"`
	OverridePriceCents     *int64    `json:"override_price_cents,omitempty"`
	DiscountCents          int64     `json:"discount_cents" validate:"gte=0"`
	TipCents               int64     `json:"tip_cents" validate:"gte=0"`
	QualifyingRevenueCents int64     `json:"qualifying_revenue_cents" validate:"gte=0"`
}

type checkoutResponse struct {
	TransactionID        uuid.UUID          `json:"transaction_id"`
	BusinessDate         string             `json:"business_date"`
	TotalNetCents        int64              `json:"total_net_cents"`
	TotalCommissionCents int64              `json:"total_commission_cents"`
	TotalOwnerCents      int64              `json:"total_owner_cents"`
	TotalTipCents        int64              `json:"total_tip_cents"`
	RoyaltyCents         int64              `json:"royalty_cents"`
	MarketingCents       int64              `json:"marketing_cents"`
	OwnerAfterSplitCents int64              `json:"owner_after_split_cents"`
	Snapshots            []snapshotResponse `json:"snapshots"`
}

type snapshotResponse struct {
	SnapshotID         uuid.UUID  `json:"snapshot_id"`
	LineItemID         uuid.UUID  `json:"line_item_id"`
	EmployeeID         uuid.UUID  `json:"employee_id"`
	Kind               string     `json:"kind"`
	Entry              string     `json:"entry"`
	ReversesSnapshotID *uuid.UUID `json:"reverses_snapshot_id,omitempty"`
	BusinessDate       string     `json:"business_date"`
	RateBps            int        `json:"rate_bps"`
	Qty                int        `json:"qty"`
	NetCents           int64      `json:"net_cents"`
	TipCents           int64      `json:"tip_cents"`
	CommissionCents    int64      `json:"commission_cents"`
	OwnerCents         int64      `json:"owner_cents"`
}

func newCheckoutResponse(result *checkoutsvc.Result) checkoutResponse {
	if result == nil {
		return checkoutResponse{}
	}
	snapshots := make([]snapshotResponse, 0, len(result.Snapshots))
	for _, snap := range result.Snapshots {
		snapshots = append(snapshots, newSnapshotResponse(snap))
	}
	txn := result.Transaction
	return checkoutResponse{
		TransactionID:        txn.ID,
		BusinessDate:         txn.BusinessDate.Format("2006-01-02"),
		TotalNetCents:        txn.TotalNetCents,
		TotalCommissionCents: txn.TotalCommissionCents,
		TotalOwnerCents:      txn.TotalOwnerCents,
		TotalTipCents:        txn.TotalTipCents,
		RoyaltyCents:         txn.RoyaltyCents,
		MarketingCents:       txn.MarketingCents,
		OwnerAfterSplitCents: txn.OwnerAfterSplitCents,
		Snapshots:            snapshots,
	}
}

func newSnapshotResponse(snap models.PayoutSnapshot) snapshotResponse {
	return snapshotResponse{
		SnapshotID:         snap.ID,
		LineItemID:         snap.LineItemID,
		EmployeeID:         snap.EmployeeID,
		Kind:               string(snap.Kind),
		Entry:              string(snap.Entry),
		ReversesSnapshotID: snap.ReversesSnapshotID,
		BusinessDate:       snap.BusinessDate.Format("2006-01-02"),
		RateBps:            snap.RateBps,
		Qty:                snap.Qty,
		NetCents:           snap.NetCents,
		TipCents:           snap.TipCents,
		CommissionCents:    snap.CommissionCents,
		OwnerCents:         snap.OwnerCents,
	}
}
