package payout

import (
	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/money"
)

// ValidateCommissionInvariant checks the accounting identities of a single
// snapshot: commission + owner equals net exactly, and the commission sits
// between zero and the commission base. The base is net, or net plus tip
// when the snapshot was computed with tips in the base, in which case the
// commission may exceed net and the owner share go negative while the
// balance still holds. Reversal snapshots carry the mirrored bounds. A
// failure means the engine produced an unbalanced record and the caller
// must refuse to persist it.
func ValidateCommissionInvariant(snap LineItemSnapshot) error {
	if !snap.Commission.Add(snap.Owner).Equal(snap.Net) {
		return invariantViolation(snap, "commission plus owner does not equal net")
	}

	base := snap.Net
	if snap.TipsInBase {
		base = snap.Net.Add(snap.Tip)
	}
	lo, hi := money.Zero(), base
	if snap.Entry == enums.PayoutEntryTypeReversal {
		lo, hi = base, money.Zero()
	}
	if snap.Commission.Cmp(lo) < 0 || snap.Commission.Cmp(hi) > 0 {
		return invariantViolation(snap, "commission outside the zero-to-base range")
	}
	return nil
}

// ValidateRefundNetsToZero checks that a set of original snapshots and the
// reversals covering them cancel out: net, commission, owner, and tip all
// sum to zero. Holds for any fully refunded transaction.
func ValidateRefundNetsToZero(originals, reversals []LineItemSnapshot) error {
	total, err := AggregatePayout(append(append([]LineItemSnapshot{}, originals...), reversals...))
	if err != nil {
		return err
	}
	if !total.TotalNet.IsZero() || !total.TotalCommission.IsZero() || !total.TotalOwner.IsZero() || !total.TotalTip.IsZero() {
		return pkgerrors.New(pkgerrors.CodeInvariant, "refund does not net to zero").WithDetails(map[string]any{
			"net":        total.TotalNet.String(),
			"commission": total.TotalCommission.String(),
			"owner":      total.TotalOwner.String(),
			"tip":        total.TotalTip.String(),
		})
	}
	return nil
}

func invariantViolation(snap LineItemSnapshot, msg string) error {
	return pkgerrors.New(pkgerrors.CodeInvariant, msg).WithDetails(map[string]any{
		"snapshot_id": snap.ID,
		"net":         snap.Net.String(),
		"tip":         snap.Tip.String(),
		"commission":  snap.Commission.String(),
		"owner":       snap.Owner.String(),
	})
}
