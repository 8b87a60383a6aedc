package refunds

import (
	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/internal/payout"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/money"
)

// toEngineSnapshot rehydrates a stored row into the engine's shape. The
// stored rate, rounding, base flag, and quantity come along because
// reversal math reruns the original calculation, not today's configuration.
func toEngineSnapshot(row models.PayoutSnapshot) payout.LineItemSnapshot {
	return payout.LineItemSnapshot{
		ID:                 row.ID,
		TransactionID:      row.TransactionID,
		LineItemID:         row.LineItemID,
		EmployeeID:         row.EmployeeID,
		Kind:               row.Kind,
		Entry:              row.Entry,
		ReversesSnapshotID: row.ReversesSnapshotID,
		BusinessDate:       row.BusinessDate,
		PlanID:             row.PlanID,
		PlanType:           row.PlanType,
		TierID:             row.TierID,
		RateBps:            row.RateBps,
		Rounding:           row.Rounding,
		TipsInBase:         row.TipsInBase,
		Qty:                row.Qty,
		Net:                money.FromCents(row.NetCents),
		Tip:                money.FromCents(row.TipCents),
		Commission:         money.FromCents(row.CommissionCents),
		Owner:              money.FromCents(row.OwnerCents),
	}
}

func toModelSnapshot(franchiseID uuid.UUID, snap payout.LineItemSnapshot) models.PayoutSnapshot {
	return models.PayoutSnapshot{
		ID:                 snap.ID,
		TransactionID:      snap.TransactionID,
		LineItemID:         snap.LineItemID,
		FranchiseID:        franchiseID,
		EmployeeID:         snap.EmployeeID,
		Kind:               snap.Kind,
		Entry:              snap.Entry,
		ReversesSnapshotID: snap.ReversesSnapshotID,
		BusinessDate:       snap.BusinessDate,
		PlanID:             snap.PlanID,
		PlanType:           snap.PlanType,
		TierID:             snap.TierID,
		RateBps:            snap.RateBps,
		Rounding:           snap.Rounding,
		TipsInBase:         snap.TipsInBase,
		Qty:                snap.Qty,
		NetCents:           snap.Net.Cents(),
		TipCents:           snap.Tip.Cents(),
		CommissionCents:    snap.Commission.Cents(),
		OwnerCents:         snap.Owner.Cents(),
	}
}
