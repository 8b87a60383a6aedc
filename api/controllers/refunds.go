package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	refundsvc "github.com/chairtime/chairtime-backend/internal/refunds"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

// Refund appends reversal snapshots for a previously processed sale. An
// empty lines array reverses everything that remains on the transaction.
func Refund(svc refundsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "refund service unavailable"))
			return
		}

		var payload refundRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]refundsvc.RefundLineInput, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			lines = append(lines, refundsvc.RefundLineInput{
				SnapshotID: line.SnapshotID,
				NetCents:   line.NetCents,
				Qty:        line.Qty,
			})
		}

		result, err := svc.Process(r.Context(), refundsvc.RefundInput{
			TransactionID: payload.TransactionID,
			OccurredAt:    payload.OccurredAt,
			Lines:         lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newRefundResponse(result))
	}
}

type refundRequest struct {
	TransactionID uuid.UUID           `json:"transaction_id" validate:"required"`
	OccurredAt    time.Time           `json:"occurred_at" validate:"required"`
	Lines         []refundLineRequest `json:"lines" validate:"dive"`
}

type refundLineRequest struct {
	SnapshotID uuid.UUID `json:"snapshot_id" validate:"required"`
	NetCents   *int64    `json:"net_cents,omitempty"`
	Qty        *int      `json:"qty,omitempty"`
}

type refundResponse struct {
	TransactionID      uuid.UUID          `json:"transaction_id"`
	ReversedNetCents   int64              `json:"reversed_net_cents"`
	ReversedCommission int64              `json:"reversed_commission_cents"`
	ReversedOwnerCents int64              `json:"reversed_owner_cents"`
	ReversedTipCents   int64              `json:"reversed_tip_cents"`
	Reversals          []snapshotResponse `json:"reversals"`
}

func newRefundResponse(result *refundsvc.Result) refundResponse {
	if result == nil {
		return refundResponse{}
	}
	reversals := make([]snapshotResponse, 0, len(result.Reversals))
	var transactionID uuid.UUID
	for _, rev := range result.Reversals {
		transactionID = rev.TransactionID
		reversals = append(reversals, newSnapshotResponse(rev))
	}
	return refundResponse{
		TransactionID:      transactionID,
		ReversedNetCents:   result.Payout.TotalNet.Cents(),
		ReversedCommission: result.Payout.TotalCommission.Cents(),
		ReversedOwnerCents: result.Payout.TotalOwner.Cents(),
		ReversedTipCents:   result.Payout.TotalTip.Cents(),
		Reversals:          reversals,
	}
}
