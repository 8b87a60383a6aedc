package payout

import (
	"fmt"

	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/money"
)

// AggregatePayout sums line snapshots into the transaction-level view.
// Every snapshot is checked against the commission invariant before it is
// summed; an unbalanced snapshot aborts the aggregation, since totals built
// from bad lines would be bad totals. Totals are plain sums of the
// already-rounded line figures; no rounding happens here. Reversal
// snapshots sum in with their negative signs, so the same function reports
// both gross and post-refund positions depending on which snapshots the
// caller passes.
func AggregatePayout(lines []LineItemSnapshot) (TransactionPayout, error) {
	agg := TransactionPayout{
		TotalNet:        money.Zero(),
		TotalCommission: money.Zero(),
		TotalOwner:      money.Zero(),
		TotalTip:        money.Zero(),
		RoyaltyAmount:   money.Zero(),
		MarketingAmount: money.Zero(),
	}
	for _, line := range lines {
		if err := ValidateCommissionInvariant(line); err != nil {
			return TransactionPayout{}, err
		}
		agg.Lines++
		agg.TotalNet = agg.TotalNet.Add(line.Net)
		agg.TotalCommission = agg.TotalCommission.Add(line.Commission)
		agg.TotalOwner = agg.TotalOwner.Add(line.Owner)
		agg.TotalTip = agg.TotalTip.Add(line.Tip)
	}
	agg.OwnerAfterSplit = agg.TotalOwner
	return agg, nil
}

// ApplySplit carves royalty and marketing amounts out of the owner total.
// Commission and tips are employee money and are never touched. Each carve
// is rounded independently at the configured policy and the remainder stays
// with the owner, so royalty + marketing + owner-after-split always equals
// the owner total exactly.
func ApplySplit(agg TransactionPayout, split SplitConfig, cfg Config) (TransactionPayout, error) {
	if !split.Enabled {
		return agg, nil
	}
	if split.RoyaltyBps < 0 || split.MarketingBps < 0 || split.RoyaltyBps+split.MarketingBps > money.BasisPointsDenominator {
		return TransactionPayout{}, pkgerrors.New(pkgerrors.CodeConfigIntegrity, fmt.Sprintf(
			"split percentages out of range: royalty=%d marketing=%d bps", split.RoyaltyBps, split.MarketingBps))
	}

	agg.RoyaltyAmount = agg.TotalOwner.ApplyRate(split.RoyaltyBps, cfg.Rounding)
	agg.MarketingAmount = agg.TotalOwner.ApplyRate(split.MarketingBps, cfg.Rounding)
	agg.OwnerAfterSplit = agg.TotalOwner.Sub(agg.RoyaltyAmount).Sub(agg.MarketingAmount)
	return agg, nil
}
