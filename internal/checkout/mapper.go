package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/internal/payout"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

func snapshotToModel(franchiseID uuid.UUID, snap payout.LineItemSnapshot) models.PayoutSnapshot {
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

func transactionToModel(id, franchiseID uuid.UUID, occurredAt, businessDate time.Time, agg payout.TransactionPayout) models.SaleTransaction {
	return models.SaleTransaction{
		ID:                   id,
		FranchiseID:          franchiseID,
		OccurredAt:           occurredAt,
		BusinessDate:         businessDate,
		Lines:                agg.Lines,
		TotalNetCents:        agg.TotalNet.Cents(),
		TotalCommissionCents: agg.TotalCommission.Cents(),
		TotalOwnerCents:      agg.TotalOwner.Cents(),
		TotalTipCents:        agg.TotalTip.Cents(),
		RoyaltyCents:         agg.RoyaltyAmount.Cents(),
		MarketingCents:       agg.MarketingAmount.Cents(),
		OwnerAfterSplitCents: agg.OwnerAfterSplit.Cents(),
	}
}
